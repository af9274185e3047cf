// Copyright (c) 2018 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"fmt"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/logdb"
)

type LogMeta struct {
	BlockNumber uint64     `json:"blockNumber"`
	BlockTime   uint64     `json:"blockTime"`
	TxID        gf.Bytes32 `json:"txID"`
	TxOrigin    gf.Address `json:"txOrigin"`
	ClauseIndex uint32     `json:"clauseIndex"`
	Index       uint32     `json:"index"`
}

// FilteredEvent is an event read back from the log.
type FilteredEvent struct {
	Contract gf.Address        `json:"contract"`
	Name     string            `json:"name"`
	Account  *gf.Address       `json:"account,omitempty"`
	Ref      *gf.Bytes32       `json:"ref,omitempty"`
	Amount   string            `json:"amount"`
	Data     map[string]string `json:"data,omitempty"`
	Meta     LogMeta           `json:"meta"`
}

func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Contract: ev.Contract,
		Name:     ev.Name,
		Amount:   "0",
		Data:     ev.Data,
		Meta: LogMeta{
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
			TxID:        ev.TxID,
			TxOrigin:    ev.TxOrigin,
			ClauseIndex: ev.ClauseIndex,
			Index:       ev.Index,
		},
	}
	if !ev.Account.IsZero() {
		account := ev.Account
		fe.Account = &account
	}
	if !ev.Ref.IsZero() {
		ref := ev.Ref
		fe.Ref = &ref
	}
	if ev.Amount != nil {
		fe.Amount = ev.Amount.String()
	}
	return fe
}

type Range struct {
	Unit logdb.RangeType `json:"unit,omitempty"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != logdb.Block && r.Unit != logdb.Time {
		return fmt.Errorf("range.unit must be either 'block' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

// convert returns the log range, nil when r selects everything.
func (r *Range) convert() *logdb.Range {
	if r == nil || (r.From == nil && r.To == nil) {
		return nil
	}
	unit := r.Unit
	if unit == "" {
		unit = logdb.Block
	}
	rng := &logdb.Range{Unit: unit}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To == nil {
		// open ended
		if rng.From == 0 {
			return nil
		}
		return rng
	}
	rng.To = *r.To
	if unit == logdb.Block {
		rng.From = min(rng.From, logdb.MaxBlockNumber)
		rng.To = min(rng.To, logdb.MaxBlockNumber)
	}
	return rng
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

type EventFilter struct {
	Contract *gf.Address `json:"contract,omitempty"`
	Name     string      `json:"name,omitempty"`
	Account  *gf.Address `json:"account,omitempty"`
	Ref      *gf.Bytes32 `json:"ref,omitempty"`
	TxID     *gf.Bytes32 `json:"txID,omitempty"`
	Range    *Range      `json:"range,omitempty"`
	Options  *Options    `json:"options,omitempty"`
	Order    logdb.Order `json:"order,omitempty"`
}

func (f *EventFilter) convert(limit uint64) *logdb.EventFilter {
	return &logdb.EventFilter{
		Contract: f.Contract,
		Name:     f.Name,
		Account:  f.Account,
		Ref:      f.Ref,
		TxID:     f.TxID,
		Range:    f.Range.convert(),
		Options: &logdb.Options{
			Offset: f.Options.Offset,
			Limit:  limit,
		},
		Order: f.Order,
	}
}
