// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

var logger = log.New("pkg", "runtime")

// Block is the context stamped on an executed transaction. Every transaction gets its own block.
type Block struct {
	Number uint64 `json:"number"`
	Time   uint64 `json:"time"`
}

// Clock returns the wall clock time in seconds.
type Clock func() uint64

func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Runtime executes transactions against the builtin contracts one at a time.
type Runtime struct {
	stater *state.Stater
	logDB  *logdb.LogDB
	clock  Clock

	lock  sync.Mutex
	feed  event.Feed
	scope event.SubscriptionScope
}

// New create a Runtime. logDB may be nil.
func New(stater *state.Stater, logDB *logdb.LogDB, clock Clock) *Runtime {
	if clock == nil {
		clock = SystemClock
	}
	return &Runtime{
		stater: stater,
		logDB:  logDB,
		clock:  clock,
	}
}

// State returns a fresh view of the committed state. Changes made to it are never committed.
func (rt *Runtime) State() *state.State {
	return rt.stater.NewState()
}

func bestBlock(st *state.State) *solidity.Raw[Block] {
	return solidity.NewRaw[Block](solidity.NewContext(builtin.Params.Address, st), gf.KeyBestBlock)
}

// BestBlock returns the last executed block, zero before the first transaction.
func BestBlock(st *state.State) (*Block, error) {
	b, err := bestBlock(st).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get best block")
	}
	return b, nil
}

// SetBestBlock is used by genesis to stamp the initial block.
func SetBestBlock(st *state.State, b *Block) error {
	return bestBlock(st).Set(b)
}

func (rt *Runtime) BestBlock() (*Block, error) {
	return BestBlock(rt.State())
}

// next allocates the block following best. Time never goes backwards.
func (rt *Runtime) next(best *Block) *Block {
	return &Block{
		Number: best.Number + 1,
		Time:   max(rt.clock(), best.Time),
	}
}

// NextBlock returns the block a transaction executed now would get.
func (rt *Runtime) NextBlock() (*Block, error) {
	best, err := rt.BestBlock()
	if err != nil {
		return nil, err
	}
	return rt.next(best), nil
}

// SubscribeReceipts delivers the receipt of every executed transaction.
// Subscribers must keep draining ch, delivery blocks execution.
func (rt *Runtime) SubscribeReceipts(ch chan *tx.Receipt) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (rt *Runtime) Close() {
	rt.scope.Close()
}

// Execute runs all clauses of trx in a new block. A revert in any clause discards the effects
// of every clause and yields a reverted receipt. Other errors abort without a receipt.
func (rt *Runtime) Execute(ctx context.Context, trx *tx.Transaction) (*tx.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rt.lock.Lock()
	defer rt.lock.Unlock()

	start := time.Now()
	st := rt.stater.NewState()
	resolved, err := ResolveTransaction(st, trx)
	if err != nil {
		return nil, err
	}
	best, err := BestBlock(st)
	if err != nil {
		return nil, err
	}
	blk := rt.next(best)
	txID := trx.ID()

	receipt := &tx.Receipt{
		TxID:        txID,
		Origin:      resolved.Origin,
		BlockNumber: blk.Number,
		BlockTime:   blk.Time,
	}

	checkpoint := st.NewCheckpoint()
	blockCtx := &xenv.BlockContext{Number: blk.Number, Time: blk.Time}
	for i, clause := range resolved.Clauses {
		rev := st.NewCheckpoint()
		env := xenv.New(st, blockCtx, &xenv.TransactionContext{
			ID:          txID,
			Origin:      resolved.Origin,
			ClauseIndex: i,
			To:          clause.To(),
		}, resolved.Origin)

		out, err := builtin.Dispatch(env, clause)
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, errors.WithMessagef(err, "clause %d", i)
			}
			st.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.RevertReason = err.Error()
			receipt.BadClauseIndex = i
			receipt.Outputs = nil
			logger.Debug("transaction reverted", "id", txID, "clause", clause, "err", err)
			break
		}
		receipt.Outputs = append(receipt.Outputs, &tx.Output{
			Events: st.EventsSince(rev),
			Result: out,
		})
	}

	if err := SetBestBlock(st, blk); err != nil {
		return nil, err
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	if rt.logDB != nil && !receipt.Reverted {
		batch := rt.logDB.Prepare(blk.Number, blk.Time)
		for i, out := range receipt.Outputs {
			batch.ForTransaction(txID, resolved.Origin).Insert(uint32(i), out.Events)
		}
		if err := batch.Commit(); err != nil {
			logger.Error("failed to write events", "block", blk.Number, "err", err)
			return receipt, errors.Wrap(err, "write events")
		}
	}

	metricsRecordExecution(resolved, receipt, time.Since(start))
	logger.Debug("transaction executed", "id", txID, "block", blk.Number, "reverted", receipt.Reverted)

	rt.feed.Send(receipt)
	return receipt, nil
}

// Call runs a single clause on behalf of caller and discards its effects.
func (rt *Runtime) Call(ctx context.Context, caller gf.Address, clause *tx.Clause) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := rt.stater.NewState()
	best, err := BestBlock(st)
	if err != nil {
		return nil, err
	}
	blk := rt.next(best)
	env := xenv.New(
		st,
		&xenv.BlockContext{Number: blk.Number, Time: blk.Time},
		&xenv.TransactionContext{Origin: caller, To: clause.To()},
		caller,
	)
	return builtin.Dispatch(env, clause)
}
