// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/GoldFingerRWA/goldfinger/api/logs"
	"github.com/GoldFingerRWA/goldfinger/api/middleware"
	"github.com/GoldFingerRWA/goldfinger/api/node"
	"github.com/GoldFingerRWA/goldfinger/api/staking"
	"github.com/GoldFingerRWA/goldfinger/api/subscriptions"
	"github.com/GoldFingerRWA/goldfinger/api/transactions"
	"github.com/GoldFingerRWA/goldfinger/api/vault"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/runtime"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins string
	BacktraceLimit uint64
	EnableWrites   bool
	RequestLogs    *middleware.LogSettings // nil logs nothing
	EnableMetrics  bool
	LogsLimit      uint64
	Info           node.Info
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	node.New(rt, opts.Info).
		Mount(router, "/node")
	staking.New(rt).
		Mount(router, "/staking")
	vault.New(rt).
		Mount(router, "/vault")
	logs.New(logDB, opts.LogsLimit).
		Mount(router, "/logs")
	transactions.New(rt, opts.EnableWrites).
		Mount(router, "/transactions")
	subs := subscriptions.New(rt, logDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	requestLogs := opts.RequestLogs
	if requestLogs == nil {
		requestLogs = middleware.NewLogSettings(false, 0, false)
	}
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger(logger, requestLogs))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(middleware.RequestIDHeader)}),
		handlers.ExposedHeaders([]string{strings.ToLower(middleware.RequestIDHeader)}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
