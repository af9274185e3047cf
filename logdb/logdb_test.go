// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	vault   = gf.BytesToAddress([]byte("Vault"))
	staking = gf.BytesToAddress([]byte("Staking"))
	alice   = gf.BytesToAddress([]byte("alice"))
	bob     = gf.BytesToAddress([]byte("bob"))
)

func newDB(t *testing.T) *LogDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// writeBlocks writes n blocks, each with a Minted event by alice and a Staked event by bob.
func writeBlocks(t *testing.T, db *LogDB, n int) {
	for i := 1; i <= n; i++ {
		num := uint64(i)
		txID := gf.Blake2b(big.NewInt(int64(i)).Bytes())
		batch := db.Prepare(num, 1000+num*10)
		batch.ForTransaction(txID, alice).Insert(0, tx.Events{
			{Address: vault, Name: "Minted", Account: alice, Amount: big.NewInt(int64(i * 100)), Data: map[string]string{"stable": "USDC"}},
		})
		batch.ForTransaction(txID, bob).Insert(1, tx.Events{
			{Address: staking, Name: "Staked", Account: bob, Ref: gf.BytesToBytes32([]byte{byte(i)}), Amount: big.NewInt(5)},
		})
		assert.Equal(t, 2, batch.Len())
		require.NoError(t, batch.Commit())
	}
}

func TestEmpty(t *testing.T) {
	db := newDB(t)

	newest, err := db.NewestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), newest)

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, db.Prepare(1, 1).Commit())
}

func TestFilterEvents(t *testing.T) {
	db := newDB(t)
	writeBlocks(t, db, 10)
	ctx := context.Background()

	newest, err := db.NewestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), newest)

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	first := all[0]
	assert.Equal(t, uint64(1), first.BlockNumber)
	assert.Equal(t, uint32(0), first.Index)
	assert.Equal(t, uint64(1010), first.BlockTime)
	assert.Equal(t, vault, first.Contract)
	assert.Equal(t, "Minted", first.Name)
	assert.Equal(t, alice, first.Account)
	assert.True(t, first.Ref.IsZero())
	assert.Equal(t, "100", first.Amount.String())
	assert.Equal(t, map[string]string{"stable": "USDC"}, first.Data)
	assert.Equal(t, uint32(1), all[1].ClauseIndex)
	assert.Nil(t, all[1].Data)

	t.Run("by contract and name", func(t *testing.T) {
		events, err := db.FilterEvents(ctx, &EventFilter{Contract: &staking, Name: "Staked"})
		require.NoError(t, err)
		assert.Len(t, events, 10)

		events, err = db.FilterEvents(ctx, &EventFilter{Contract: &vault, Name: "Staked"})
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("by account", func(t *testing.T) {
		events, err := db.FilterEvents(ctx, &EventFilter{Account: &alice})
		require.NoError(t, err)
		assert.Len(t, events, 10)
		for _, ev := range events {
			assert.Equal(t, "Minted", ev.Name)
		}
	})

	t.Run("by ref", func(t *testing.T) {
		ref := gf.BytesToBytes32([]byte{3})
		events, err := db.FilterEvents(ctx, &EventFilter{Ref: &ref})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, uint64(3), events[0].BlockNumber)
	})

	t.Run("by tx", func(t *testing.T) {
		txID := gf.Blake2b(big.NewInt(4).Bytes())
		events, err := db.FilterEvents(ctx, &EventFilter{TxID: &txID})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("block range", func(t *testing.T) {
		events, err := db.FilterEvents(ctx, &EventFilter{Range: &Range{Unit: Block, From: 3, To: 5}})
		require.NoError(t, err)
		assert.Len(t, events, 6)

		// open ended
		events, err = db.FilterEvents(ctx, &EventFilter{Range: &Range{Unit: Block, From: 9}})
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})

	t.Run("time range", func(t *testing.T) {
		events, err := db.FilterEvents(ctx, &EventFilter{Range: &Range{Unit: Time, From: 1020, To: 1030}})
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})

	t.Run("order and paging", func(t *testing.T) {
		events, err := db.FilterEvents(ctx, &EventFilter{
			Name:    "Minted",
			Order:   DESC,
			Options: &Options{Offset: 1, Limit: 3},
		})
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, uint64(9), events[0].BlockNumber)
		assert.Equal(t, uint64(7), events[2].BlockNumber)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := db.FilterEvents(cctx, nil)
		assert.Error(t, err)
	})
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.db")

	db, err := New(path)
	require.NoError(t, err)
	writeBlocks(t, db, 2)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	newest, err := db.NewestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), newest)
}
