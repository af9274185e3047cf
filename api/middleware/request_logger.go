// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RequestIDHeader carries the id of a request, generated when the client does not send one.
const RequestIDHeader = "X-Request-Id"

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

// RequestID tags every request and its response with an id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// LogSettings decides which API requests are logged. It may be changed while serving.
type LogSettings struct {
	all           atomic.Bool
	slowThreshold atomic.Int64 // ms, 0 disables
	serverErrors  atomic.Bool
}

// NewLogSettings creates settings logging every request when all is set, requests slower than
// slowThreshold, and 5xx responses when serverErrors is set.
func NewLogSettings(all bool, slowThreshold time.Duration, serverErrors bool) *LogSettings {
	s := &LogSettings{}
	s.all.Store(all)
	s.SetSlowThreshold(slowThreshold)
	s.serverErrors.Store(serverErrors)
	return s
}

func (s *LogSettings) All() bool                    { return s.all.Load() }
func (s *LogSettings) SetAll(v bool)                { s.all.Store(v) }
func (s *LogSettings) ServerErrors() bool           { return s.serverErrors.Load() }
func (s *LogSettings) SetServerErrors(v bool)       { s.serverErrors.Store(v) }
func (s *LogSettings) SlowThreshold() time.Duration { return time.Duration(s.slowThreshold.Load()) * time.Millisecond }

func (s *LogSettings) SetSlowThreshold(d time.Duration) {
	s.slowThreshold.Store(max(d.Milliseconds(), 0))
}

func (s *LogSettings) off() bool {
	return !s.All() && s.slowThreshold.Load() == 0 && !s.ServerErrors()
}

// RequestLogger logs the requests selected by settings, with their body, status and duration.
func RequestLogger(logger log.Logger, settings *LogSettings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if settings.off() {
				next.ServeHTTP(w, r)
				return
			}
			// the body can be read only once
			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			start := time.Now()
			rec := &statusRecorder{w, http.StatusOK}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			threshold := settings.SlowThreshold()
			slow := threshold > 0 && duration > threshold
			failed := settings.ServerErrors() && rec.statusCode >= http.StatusInternalServerError
			if !settings.All() && !slow && !failed {
				return
			}
			logger.Info("API Request",
				"RequestID", r.Header.Get(RequestIDHeader),
				"DurationMs", duration.Milliseconds(),
				"URI", r.URL.String(),
				"Method", r.Method,
				"Status", rec.statusCode,
				"Slow", slow,
				"Body", string(body),
			)
		})
	}
}
