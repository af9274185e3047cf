// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

type body struct {
	Origin  gf.Address
	Nonce   uint64
	Clauses []clauseBody
}

// Transaction is a batch of clauses executed atomically on behalf of its origin.
// Signature verification is not part of this ledger; the origin is trusted as given.
type Transaction struct {
	body body
}

// Origin returns the account that sent the transaction.
func (t *Transaction) Origin() gf.Address {
	return t.body.Origin
}

// Nonce returns the nonce.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Clauses returns a copy of the clauses.
func (t *Transaction) Clauses() []*Clause {
	cs := make([]*Clause, 0, len(t.body.Clauses))
	for _, c := range t.body.Clauses {
		cs = append(cs, &Clause{c})
	}
	return cs
}

// ID returns the blake2b hash of the rlp encoded body.
func (t *Transaction) ID() gf.Bytes32 {
	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	return gf.Blake2b(data)
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// NewBuilder creates a builder for the origin.
func NewBuilder(origin gf.Address) *Builder {
	return &Builder{body{Origin: origin}}
}

// Clause add a clause.
func (b *Builder) Clause(c *Clause) *Builder {
	b.body.Clauses = append(b.body.Clauses, c.body)
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Clauses = append([]clauseBody(nil), b.body.Clauses...)
	return &tx
}
