// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(level *slog.LevelVar, method, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	New(level).Mount(router, "/admin/loglevel")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, "/admin/loglevel", strings.NewReader(body)))
	return rr
}

func TestGetLevel(t *testing.T) {
	var level slog.LevelVar
	level.Set(log.LevelWarn)

	rr := serve(&level, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, Response{CurrentLevel: "WARN", Verbosity: 2}, res)
}

func TestSetLevel(t *testing.T) {
	for body, expected := range map[string]Response{
		`{"level":"debug"}`: {"DEBUG", 4},
		`{"level":"TRACE"}`: {"TRACE", 5},
		`{"level":"crit"}`:  {"CRIT", 0},
		`{"level":"1"}`:     {"ERROR", 1},
		`{"level":"3"}`:     {"INFO", 3},
	} {
		var level slog.LevelVar
		rr := serve(&level, http.MethodPost, body)
		require.Equal(t, http.StatusOK, rr.Code, body)

		var res Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, expected, res, body)
		assert.Equal(t, expected.CurrentLevel, describe(level.Level()).CurrentLevel, body)
	}
}

func TestSetLevelBadRequest(t *testing.T) {
	for body, msg := range map[string]string{
		`{"level":"loud"}`:      "Invalid verbosity level",
		`{"level":"6"}`:         "Invalid verbosity level",
		`{"level":"-1"}`:        "Invalid verbosity level",
		`{"verbosity":"debug"}`: `Invalid request body: json: unknown field "verbosity"`,
	} {
		var level slog.LevelVar
		level.Set(log.LevelInfo)
		rr := serve(&level, http.MethodPost, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, msg, strings.TrimSpace(rr.Body.String()), body)
		assert.Equal(t, log.LevelInfo, level.Level(), body)
	}
}

func TestDescribeUnnamedLevel(t *testing.T) {
	res := describe(slog.Level(2))
	assert.Equal(t, -1, res.Verbosity)
	assert.Equal(t, slog.Level(2).String(), res.CurrentLevel)
}
