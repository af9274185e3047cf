// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/logs"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// EventMessage is an event pushed to subscribers.
type EventMessage = logs.FilteredEvent

// EventFilter selects the events a subscriber receives. Nil or empty fields match anything.
type EventFilter struct {
	Contract *gf.Address
	Name     string
	Account  *gf.Address
	Ref      *gf.Bytes32
}

func parseEventFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	filter := &EventFilter{Name: query.Get("name")}
	if s := query.Get("contract"); s != "" {
		addr, err := gf.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "contract")
		}
		filter.Contract = addr
	}
	if s := query.Get("account"); s != "" {
		addr, err := gf.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		filter.Account = addr
	}
	if s := query.Get("ref"); s != "" {
		ref, err := gf.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, "ref")
		}
		filter.Ref = &ref
	}
	return filter, nil
}

func (f *EventFilter) match(ev *logdb.Event) bool {
	if f.Contract != nil && *f.Contract != ev.Contract {
		return false
	}
	if f.Name != "" && f.Name != ev.Name {
		return false
	}
	if f.Account != nil && *f.Account != ev.Account {
		return false
	}
	if f.Ref != nil && *f.Ref != ev.Ref {
		return false
	}
	return true
}

// logFilter selects the logged events from block from onwards.
func (f *EventFilter) logFilter(from uint64, limit uint64) *logdb.EventFilter {
	filter := &logdb.EventFilter{
		Contract: f.Contract,
		Name:     f.Name,
		Account:  f.Account,
		Ref:      f.Ref,
		Options:  &logdb.Options{Limit: limit},
	}
	if from > 0 {
		filter.Range = &logdb.Range{Unit: logdb.Block, From: from}
	}
	return filter
}

// receiptEvents flattens the events of a receipt the way they are indexed in the log.
func receiptEvents(r *tx.Receipt) []*logdb.Event {
	if r.Reverted {
		return nil
	}
	var (
		events []*logdb.Event
		index  uint32
	)
	for clauseIndex, out := range r.Outputs {
		for _, ev := range out.Events {
			events = append(events, &logdb.Event{
				BlockNumber: r.BlockNumber,
				Index:       index,
				BlockTime:   r.BlockTime,
				TxID:        r.TxID,
				TxOrigin:    r.Origin,
				ClauseIndex: uint32(clauseIndex),
				Contract:    ev.Address,
				Name:        ev.Name,
				Account:     ev.Account,
				Ref:         ev.Ref,
				Amount:      ev.Amount,
				Data:        ev.Data,
			})
			index++
		}
	}
	return events
}
