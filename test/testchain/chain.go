// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/GoldFingerRWA/goldfinger/genesis"
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/test/datagen"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

// Chain is an in-memory ledger built from a genesis, with a clock driven by the test.
type Chain struct {
	db      *lvldb.LevelDB
	genesis *genesis.Genesis
	stater  *state.Stater
	logDB   *logdb.LogDB
	rt      *runtime.Runtime
	now     atomic.Uint64
}

// NewDefault creates a Chain from the dev network genesis.
func NewDefault() (*Chain, error) {
	return NewWithGenesis(genesis.NewDevnet())
}

// NewWithGenesis creates a Chain from gene, with the clock at the launch time.
func NewWithGenesis(gene *genesis.Genesis) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	stater := state.NewStater(db)
	if _, err := gene.Build(stater); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	c := &Chain{
		db:      db,
		genesis: gene,
		stater:  stater,
		logDB:   logDB,
	}
	c.now.Store(gene.LaunchTime())
	c.rt = runtime.New(stater, logDB, c.now.Load)
	return c, nil
}

func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }
func (c *Chain) DB() *lvldb.LevelDB        { return c.db }
func (c *Chain) Stater() *state.Stater     { return c.stater }
func (c *Chain) LogDB() *logdb.LogDB       { return c.logDB }
func (c *Chain) Runtime() *runtime.Runtime { return c.rt }
func (c *Chain) State() *state.State       { return c.rt.State() }
func (c *Chain) Now() uint64               { return c.now.Load() }
func (c *Chain) SetTime(now uint64)        { c.now.Store(now) }
func (c *Chain) Advance(seconds uint64)    { c.now.Add(seconds) }

// MintClauses executes the clauses in one transaction of account, failing on a reverted receipt.
func (c *Chain) MintClauses(account genesis.DevAccount, clauses ...*tx.Clause) (*tx.Receipt, error) {
	builder := tx.NewBuilder(account.Address).Nonce(datagen.RandUint64())
	for _, clause := range clauses {
		builder.Clause(clause)
	}
	receipt, err := c.rt.Execute(context.Background(), builder.Build())
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, fmt.Errorf("clause %d reverted: %s", receipt.BadClauseIndex, receipt.RevertReason)
	}
	return receipt, nil
}

// Close releases the runtime and the databases.
func (c *Chain) Close() {
	c.rt.Close()
	c.logDB.Close()
	c.db.Close()
}
