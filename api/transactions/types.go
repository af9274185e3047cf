// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// Clause for json marshal
type Clause struct {
	To     gf.Address      `json:"to"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

func (c *Clause) convert() (*tx.Clause, error) {
	if c.Method == "" {
		return nil, errors.New("method: required")
	}
	clause := tx.NewClause(c.To, c.Method)
	if len(c.Args) > 0 {
		clause = clause.WithRawArgs(c.Args)
	}
	return clause, nil
}

// Transaction is the body of a transaction submission.
type Transaction struct {
	Origin  gf.Address          `json:"origin"`
	Nonce   math.HexOrDecimal64 `json:"nonce"`
	Clauses []*Clause           `json:"clauses"`
}

func (t *Transaction) convert() (*tx.Transaction, error) {
	builder := tx.NewBuilder(t.Origin).Nonce(uint64(t.Nonce))
	for i, c := range t.Clauses {
		if c == nil {
			return nil, errors.Errorf("clauses[%d]: null not allowed", i)
		}
		clause, err := c.convert()
		if err != nil {
			return nil, errors.WithMessagef(err, "clauses[%d]", i)
		}
		builder.Clause(clause)
	}
	return builder.Build(), nil
}

// Call is a read-only execution of one clause.
type Call struct {
	Caller gf.Address `json:"caller"`
	Clause
}

type CallResult struct {
	Result   json.RawMessage `json:"result"`
	Reverted bool            `json:"reverted"`
	Error    string          `json:"error,omitempty"`
}

type Output struct {
	Events []*Event        `json:"events"`
	Result json.RawMessage `json:"result,omitempty"`
}

type Event struct {
	Contract gf.Address        `json:"contract"`
	Name     string            `json:"name"`
	Account  *gf.Address       `json:"account,omitempty"`
	Ref      *gf.Bytes32       `json:"ref,omitempty"`
	Amount   string            `json:"amount"`
	Data     map[string]string `json:"data,omitempty"`
}

// ConvertEvent renders an event raised by a transaction.
func ConvertEvent(ev *tx.Event) *Event {
	e := &Event{
		Contract: ev.Address,
		Name:     ev.Name,
		Amount:   "0",
		Data:     ev.Data,
	}
	if !ev.Account.IsZero() {
		account := ev.Account
		e.Account = &account
	}
	if !ev.Ref.IsZero() {
		ref := ev.Ref
		e.Ref = &ref
	}
	if ev.Amount != nil {
		e.Amount = ev.Amount.String()
	}
	return e
}

type Receipt struct {
	TxID         gf.Bytes32 `json:"txID"`
	Origin       gf.Address `json:"origin"`
	BlockNumber  uint64     `json:"blockNumber"`
	BlockTime    uint64     `json:"blockTime"`
	Reverted     bool       `json:"reverted"`
	RevertReason string     `json:"revertReason,omitempty"`
	BadClause    *int       `json:"badClause,omitempty"`
	Outputs      []*Output  `json:"outputs"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		TxID:         r.TxID,
		Origin:       r.Origin,
		BlockNumber:  r.BlockNumber,
		BlockTime:    r.BlockTime,
		Reverted:     r.Reverted,
		RevertReason: r.RevertReason,
		Outputs:      make([]*Output, 0, len(r.Outputs)),
	}
	if r.Reverted {
		bad := r.BadClauseIndex
		receipt.BadClause = &bad
	}
	for _, o := range r.Outputs {
		out := &Output{Events: make([]*Event, 0, len(o.Events)), Result: o.Result}
		for _, ev := range o.Events {
			out.Events = append(out.Events, ConvertEvent(ev))
		}
		receipt.Outputs = append(receipt.Outputs, out)
	}
	return receipt
}
