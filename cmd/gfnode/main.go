// Copyright (c) 2018 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/GoldFingerRWA/goldfinger/api"
	"github.com/GoldFingerRWA/goldfinger/api/middleware"
	"github.com/GoldFingerRWA/goldfinger/api/node"
	"github.com/GoldFingerRWA/goldfinger/metrics"
	gfruntime "github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.New("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	// values from .env become defaults for flags bound to GF_* variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "GoldFinger",
		Usage:     "Node of the GoldFinger token ledger",
		Copyright: "2025 GoldFinger",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEnableWritesFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			statsCronFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx, os.Stderr)
	defer func() { logger.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	ldg, err := openLedger(ctx, gene)
	if err != nil {
		return err
	}
	defer ldg.Close()

	stater := state.NewStater(ldg.mainDB)
	if err := initState(gene, stater); err != nil {
		return err
	}

	rt := gfruntime.New(stater, ldg.logDB, gfruntime.SystemClock)
	defer func() { logger.Info("closing runtime..."); rt.Close() }()

	requestLogs := middleware.NewLogSettings(
		ctx.Bool(enableAPILogsFlag.Name),
		time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name))*time.Millisecond,
		ctx.Bool(apiLog5xxErrorsFlag.Name),
	)

	handler, closeAPI := api.New(rt, ldg.logDB, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		BacktraceLimit: ctx.Uint64(apiBacktraceLimitFlag.Name),
		EnableWrites:   ctx.Bool(apiEnableWritesFlag.Name),
		RequestLogs:    requestLogs,
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:      ctx.Uint64(apiLogsLimitFlag.Name),
		Info: node.Info{
			Name:       gene.Name(),
			Version:    fullVersion(),
			LaunchTime: gene.LaunchTime(),
		},
	})
	defer closeAPI()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, groupCtx := errgroup.WithContext(sigCtx)

	apiAddr := ctx.String(apiAddrFlag.Name)
	apiListener, err := net.Listen("tcp", apiAddr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", apiAddr)
	}
	group.Go(func() error {
		return serve(groupCtx, "api", newServer(handler), apiListener)
	})

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		addr := ctx.String(metricsAddrFlag.Name)
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return errors.Wrapf(err, "listen metrics addr [%v]", addr)
		}
		metricsURL = "http://" + listener.Addr().String() + "/metrics"
		group.Go(func() error {
			return serve(groupCtx, "metrics", newServer(metricsHandler()), listener)
		})
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, requestLogs)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeAdmin() }()
		adminURL = url
	}

	stopReporter, err := startReporter(rt, ldg.mainDB, ctx.String(statsCronFlag.Name), ctx.String(ntpServerFlag.Name))
	if err != nil {
		return errors.Wrap(err, "start stats reporter")
	}
	defer stopReporter()

	best, err := rt.BestBlock()
	if err != nil {
		return err
	}
	printStartupMessage(gene, best, ldg.dir, "http://"+apiListener.Addr().String()+"/", metricsURL, adminURL)

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("received exit signal")
	return nil
}
