// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		settings  *LogSettings
		handler   http.HandlerFunc
		shouldLog bool
	}{
		{"all", NewLogSettings(true, 0, false), respond(http.StatusOK, 0), true},
		{"off", NewLogSettings(false, 0, false), respond(http.StatusOK, 0), false},
		{"slow", NewLogSettings(false, 10*time.Millisecond, false), respond(http.StatusOK, 20*time.Millisecond), true},
		{"fast", NewLogSettings(false, time.Second, false), respond(http.StatusOK, 0), false},
		{"500", NewLogSettings(false, 0, true), respond(http.StatusInternalServerError, 0), true},
		{"503", NewLogSettings(false, 0, true), respond(http.StatusServiceUnavailable, 0), true},
		{"500 not selected", NewLogSettings(false, 0, false), respond(http.StatusInternalServerError, 0), false},
		{"409 is not a server error", NewLogSettings(false, 0, true), respond(http.StatusConflict, 0), false},
		{"implicit 200", NewLogSettings(false, 0, true), func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("{}")) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewLogger(log.JSONHandler(&buf))

			body := `{"clauses":[{"to":"0x00000000000000000000000000000000005661756c74","method":"redeem"}]}`
			req := httptest.NewRequest(http.MethodPost, "http://localhost/transactions", strings.NewReader(body))
			rr := httptest.NewRecorder()
			RequestLogger(logger, tt.settings)(tt.handler).ServeHTTP(rr, req)

			if !tt.shouldLog {
				assert.Empty(t, buf.String())
				return
			}
			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "API Request", record["msg"])
			assert.Equal(t, "http://localhost/transactions", record["URI"])
			assert.Equal(t, http.MethodPost, record["Method"])
			assert.Equal(t, float64(rr.Code), record["Status"])
			assert.Equal(t, body, record["Body"])
		})
	}
}

func TestLogSettings(t *testing.T) {
	s := NewLogSettings(false, -time.Second, false)
	assert.True(t, s.off())
	assert.Equal(t, time.Duration(0), s.SlowThreshold())

	s.SetSlowThreshold(1500 * time.Microsecond)
	assert.Equal(t, time.Millisecond, s.SlowThreshold())
	assert.False(t, s.off())

	s.SetSlowThreshold(0)
	s.SetServerErrors(true)
	assert.True(t, s.ServerErrors())
	assert.False(t, s.off())

	s.SetServerErrors(false)
	s.SetAll(true)
	assert.True(t, s.All())
	assert.False(t, s.off())
}

func TestSettingsChangeWhileServing(t *testing.T) {
	var buf bytes.Buffer
	settings := NewLogSettings(false, 0, false)
	handler := RequestLogger(log.NewLogger(log.JSONHandler(&buf)), settings)(respond(http.StatusOK, 0))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/node/info", nil))
	assert.Empty(t, buf.String())

	settings.SetAll(true)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/node/info", nil))
	assert.Contains(t, buf.String(), `"URI":"/node/info"`)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/node/info", nil))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/node/info", nil)
	req.Header.Set(RequestIDHeader, id)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, id, seen)
	assert.Equal(t, id, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/node/info", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.NotEqual(t, "not-a-uuid", seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
}
