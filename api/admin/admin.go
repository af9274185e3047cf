// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/GoldFingerRWA/goldfinger/api/admin/apilogs"
	"github.com/GoldFingerRWA/goldfinger/api/admin/loglevel"
	"github.com/GoldFingerRWA/goldfinger/api/middleware"
)

// New returns the admin router, serving /admin/loglevel and /admin/apilogs.
func New(logLevel *slog.LevelVar, requestLogs *middleware.LogSettings) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(requestLogs).Mount(sub, "/apilogs")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
