// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller gf.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process, run before any call.
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a builtin contract call, run in order after the state processes.
func (b *Builder) Call(clause *tx.Clause, caller gf.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build writes the genesis state as block zero and returns the events raised by the calls.
func (b *Builder) Build(stater *state.Stater) (events tx.Events, err error) {
	st := stater.NewState()

	best, err := runtime.BestBlock(st)
	if err != nil {
		return nil, err
	}
	if best.Time != 0 {
		return nil, errors.New("state already initialized")
	}

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	blockCtx := &xenv.BlockContext{Number: 0, Time: b.timestamp}
	for i, call := range b.calls {
		env := xenv.New(st, blockCtx, &xenv.TransactionContext{
			Origin:      call.caller,
			ClauseIndex: i,
			To:          call.clause.To(),
		}, call.caller)
		if _, err := builtin.Dispatch(env, call.clause); err != nil {
			return nil, errors.WithMessagef(err, "call %s", call.clause.Method())
		}
	}
	events = st.Events()

	if err := runtime.SetBestBlock(st, &runtime.Block{Number: 0, Time: b.timestamp}); err != nil {
		return nil, err
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return events, nil
}
