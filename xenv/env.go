// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var ErrReentrantCall = reverts.New(reverts.KindState, "reentrant call")

// BlockContext block context.
type BlockContext struct {
	Number uint64
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID          gf.Bytes32
	Origin      gf.Address
	ClauseIndex int
	To          gf.Address // target of the executing clause
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	caller   gf.Address
	entered  map[gf.Address]bool
}

// New create a new env.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	caller gf.Address,
) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		caller:   caller,
		entered:  make(map[gf.Address]bool),
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() gf.Address                      { return env.caller }
func (env *Environment) Now() uint64                             { return env.blockCtx.Time }

// Enter marks contract as executing a value-moving call.
// A second entry before the returned exit func is called fails with ErrReentrantCall.
func (env *Environment) Enter(contract gf.Address) (exit func(), err error) {
	if env.entered[contract] {
		return nil, ErrReentrantCall
	}
	env.entered[contract] = true
	return func() { delete(env.entered, contract) }, nil
}

// Emit records an event raised by contract.
func (env *Environment) Emit(contract gf.Address, ev *tx.Event) {
	ev.Address = contract
	env.state.AddEvent(ev)
}
