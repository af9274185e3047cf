// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/middleware"
	"github.com/GoldFingerRWA/goldfinger/api/utils"
)

var logger = log.New("pkg", "apilogs")

// maxSlowThreshold bounds the slow request threshold accepted at runtime.
const maxSlowThreshold = 10 * time.Minute

// LogStatus is the request logging setup.
type LogStatus struct {
	Enabled         bool   `json:"enabled"`
	SlowThresholdMs uint64 `json:"slowThresholdMs"`
	Log5xxErrors    bool   `json:"log5xxErrors"`
}

// Update changes the fields it carries and keeps the others.
type Update struct {
	Enabled         *bool   `json:"enabled"`
	SlowThresholdMs *uint64 `json:"slowThresholdMs"`
	Log5xxErrors    *bool   `json:"log5xxErrors"`
}

type APILogs struct {
	settings *middleware.LogSettings
	mu       sync.Mutex
}

func New(settings *middleware.LogSettings) *APILogs {
	return &APILogs{settings: settings}
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleUpdate))
}

func (a *APILogs) status() *LogStatus {
	return &LogStatus{
		Enabled:         a.settings.All(),
		SlowThresholdMs: uint64(a.settings.SlowThreshold().Milliseconds()),
		Log5xxErrors:    a.settings.ServerErrors(),
	}
}

func (a *APILogs) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return utils.WriteJSON(w, a.status())
}

func (a *APILogs) handleUpdate(w http.ResponseWriter, r *http.Request) error {
	var req Update
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if req.Enabled == nil && req.SlowThresholdMs == nil && req.Log5xxErrors == nil {
		return utils.BadRequest(errors.New("body: nothing to update"))
	}
	if req.SlowThresholdMs != nil && time.Duration(*req.SlowThresholdMs) > maxSlowThreshold/time.Millisecond {
		return utils.BadRequest(errors.Errorf("slowThresholdMs: exceeds %v", maxSlowThreshold))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if req.Enabled != nil {
		a.settings.SetAll(*req.Enabled)
	}
	if req.SlowThresholdMs != nil {
		a.settings.SetSlowThreshold(time.Duration(*req.SlowThresholdMs) * time.Millisecond)
	}
	if req.Log5xxErrors != nil {
		a.settings.SetServerErrors(*req.Log5xxErrors)
	}

	status := a.status()
	logger.Info("api logs updated", "enabled", status.Enabled, "slowThresholdMs", status.SlowThresholdMs, "log5xxErrors", status.Log5xxErrors)
	return utils.WriteJSON(w, status)
}
