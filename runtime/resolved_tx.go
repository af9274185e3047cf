// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	ErrNoClauses  = reverts.New(reverts.KindValidation, "transaction has no clauses")
	ErrZeroOrigin = reverts.New(reverts.KindValidation, "transaction origin is zero")
)

// ResolvedTransaction is a transaction whose clauses were matched against the builtin contracts.
type ResolvedTransaction struct {
	tx      *tx.Transaction
	Origin  gf.Address
	Clauses []*tx.Clause
	// ReadOnly is set when no clause changes state.
	ReadOnly bool
}

// ResolveTransaction performs the checks that do not depend on execution.
func ResolveTransaction(st *state.State, trx *tx.Transaction) (*ResolvedTransaction, error) {
	origin := trx.Origin()
	if origin.IsZero() {
		return nil, ErrZeroOrigin
	}
	clauses := trx.Clauses()
	if len(clauses) == 0 {
		return nil, ErrNoClauses
	}
	readOnly := true
	for _, clause := range clauses {
		write, err := builtin.IsWrite(st, clause.To(), clause.Method())
		if err != nil {
			return nil, err
		}
		if write {
			readOnly = false
		}
	}
	return &ResolvedTransaction{
		tx:       trx,
		Origin:   origin,
		Clauses:  clauses,
		ReadOnly: readOnly,
	}, nil
}

// CommonTo returns the contract all clauses call, nil if they differ.
func (r *ResolvedTransaction) CommonTo() *gf.Address {
	if len(r.Clauses) == 0 {
		return nil
	}
	to := r.Clauses[0].To()
	for _, clause := range r.Clauses[1:] {
		if clause.To() != to {
			return nil
		}
	}
	return &to
}
