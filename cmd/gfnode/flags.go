// Copyright (c) 2018 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for ledger databases",
		EnvVar: "GF_DATA_DIR",
	}
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to genesis yaml file, if not set, the default devnet genesis will be used",
		EnvVar: "GF_GENESIS",
	}
	persistFlag = cli.BoolTFlag{
		Name:   "persist",
		Usage:  "save ledger data to disk, keep everything in memory if set to false",
		EnvVar: "GF_PERSIST",
	}
	cacheFlag = cli.Uint64Flag{
		Name:   "cache",
		Value:  256,
		Usage:  "megabytes of ram allocated to the main database cache",
		EnvVar: "GF_CACHE",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "GF_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "GF_API_CORS",
	}
	apiEnableWritesFlag = cli.BoolFlag{
		Name:   "api-enable-writes",
		Usage:  "accept transactions through POST /transactions",
		EnvVar: "GF_API_ENABLE_WRITES",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:   "api-backtrace-limit",
		Value:  1000,
		Usage:  "limit the distance between 'position' and best block for subscriptions APIs",
		EnvVar: "GF_API_BACKTRACE_LIMIT",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:   "api-logs-limit",
		Value:  1000,
		Usage:  "limit the number of logs returned by /logs API",
		EnvVar: "GF_API_LOGS_LIMIT",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Usage:  "all queries with duration longer than this value (ms) will be logged",
		EnvVar: "GF_API_SLOW_QUERIES_THRESHOLD",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:   "api-log-5xx-errors",
		Usage:  "log all requests resulting in 5xx status codes",
		EnvVar: "GF_API_LOG_5XX_ERRORS",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "GF_ENABLE_API_LOGS",
	}

	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "GF_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "GF_JSON_LOGS",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "GF_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "GF_METRICS_ADDR",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		Usage:  "enables admin server",
		EnvVar: "GF_ENABLE_ADMIN",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Value:  "localhost:2113",
		Usage:  "admin service listening address",
		EnvVar: "GF_ADMIN_ADDR",
	}

	statsCronFlag = cli.StringFlag{
		Name:   "stats-cron",
		Value:  "@every 1m",
		Usage:  "cron spec of the ledger stats report, empty to disable",
		EnvVar: "GF_STATS_CRON",
	}
	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		Value:  "pool.ntp.org",
		Usage:  "NTP server used to check the local clock, empty to disable",
		EnvVar: "GF_NTP_SERVER",
	}
)
