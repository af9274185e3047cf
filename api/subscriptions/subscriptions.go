// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/logs"
	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var logger = log.New("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	backtraceLimit uint64
	logDB          *logdb.LogDB
	hub            *receiptHub
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(rt *runtime.Runtime, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	sub := &Subscriptions{
		backtraceLimit: backtraceLimit,
		logDB:          logDB,
		hub:            newReceiptHub(rt),
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}

	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()

		sub.hub.DispatchLoop(sub.done)
	}()
	return sub
}

// backtrace returns the logged events of blocks from onwards, up to the backtrace limit.
func (s *Subscriptions) backtrace(ctx context.Context, filter *EventFilter, from uint64) ([]*logdb.Event, error) {
	if s.logDB == nil {
		return nil, nil
	}
	events, err := s.logDB.FilterEvents(ctx, filter.logFilter(from, s.backtraceLimit+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(events)) > s.backtraceLimit {
		return nil, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return events, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	var (
		replay []*logdb.Event
		since  uint64 // live events of blocks before since were replayed already
	)
	if req.URL.Query().Get("pos") != "" {
		pos, err := utils.ParseUint(req, "pos", 0)
		if err != nil {
			return err
		}
		if replay, err = s.backtrace(req.Context(), filter, pos); err != nil {
			return err
		}
	}

	// listen before replaying so no event falls in between
	receiptCh := make(chan *tx.Receipt, 100)
	s.hub.Subscribe(receiptCh)
	defer s.hub.Unsubscribe(receiptCh)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		// the upgrader has responded already
		return nil
	}
	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()
	defer conn.Close()

	for _, ev := range replay {
		if err := s.write(conn, logs.ConvertEvent(ev)); err != nil {
			return nil
		}
		since = ev.BlockNumber + 1
	}
	return s.pipe(conn, filter, receiptCh, closed, since)
}

func (s *Subscriptions) write(conn *websocket.Conn, msg any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		logger.Debug("websocket write err", "err", err)
		return err
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, filter *EventFilter, receiptCh chan *tx.Receipt, closed chan struct{}, since uint64) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "")); err != nil {
				logger.Debug("failed to write close message", "err", err)
			}
			return nil
		case <-closed:
			return nil
		case receipt := <-receiptCh:
			if receipt.BlockNumber < since {
				continue
			}
			for _, ev := range receiptEvents(receipt) {
				if !filter.match(ev) {
					continue
				}
				if err := s.write(conn, logs.ConvertEvent(ev)); err != nil {
					return nil
				}
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("failed to write ping message", "err", err)
				return nil
			}
		}
	}
}

// Close disconnects all subscribers.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
