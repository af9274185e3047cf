// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
)

var logger = log.New("pkg", "loglevel")

// Request sets the level by name or by the verbosity number of the --verbosity flag.
type Request struct {
	Level string `json:"level"`
}

type Response struct {
	CurrentLevel string `json:"currentLevel"`
	Verbosity    int    `json:"verbosity"`
}

// levels indexed by verbosity.
var levels = []struct {
	name  string
	level slog.Level
}{
	{"CRIT", log.LevelCrit},
	{"ERROR", log.LevelError},
	{"WARN", log.LevelWarn},
	{"INFO", log.LevelInfo},
	{"DEBUG", log.LevelDebug},
	{"TRACE", log.LevelTrace},
}

func parseLevel(s string) (slog.Level, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(levels) {
			return 0, false
		}
		return levels[n].level, true
	}
	for _, l := range levels {
		if strings.EqualFold(l.name, s) {
			return l.level, true
		}
	}
	return 0, false
}

func describe(level slog.Level) *Response {
	for i, l := range levels {
		if l.level == level {
			return &Response{CurrentLevel: l.name, Verbosity: i}
		}
	}
	return &Response{CurrentLevel: level.String(), Verbosity: -1}
}

type LogLevel struct {
	logLevel *slog.LevelVar
}

func New(logLevel *slog.LevelVar) *LogLevel {
	return &LogLevel{logLevel}
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetLevel))

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handleSetLevel))
}

func (l *LogLevel) handleGetLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, describe(l.logLevel.Level()))
}

func (l *LogLevel) handleSetLevel(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}
	level, ok := parseLevel(req.Level)
	if !ok {
		return utils.BadRequest(errors.New("Invalid verbosity level"))
	}

	prev := l.logLevel.Level()
	l.logLevel.Set(level)
	res := describe(level)
	logger.Info("log level changed", "from", describe(prev).CurrentLevel, "to", res.CurrentLevel)
	return utils.WriteJSON(w, res)
}
