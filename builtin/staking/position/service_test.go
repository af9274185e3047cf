// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/state"
)

const day = 24 * 3600

var (
	alice  = gf.BytesToAddress([]byte("alice"))
	boosts = stakes.Boosts{gf.InitialBoostFlex, gf.InitialBoost30, gf.InitialBoost90}
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(gf.BytesToAddress([]byte("Staking")), state.NewStater(db).NewState()))
}

func amounts(t *testing.T, svc *Service, term stakes.Term) []string {
	all, err := svc.Positions(pool.ART, alice, term, 0, 100)
	require.NoError(t, err)
	out := make([]string, 0, len(all))
	for _, p := range all {
		out = append(out, p.Amount.String())
	}
	return out
}

func TestAddAndWeight(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.Add(pool.ART, alice, stakes.TermFlex, big.NewInt(100), 0, 200))
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(200), 0, 200))
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term90, big.NewInt(1000), 0, 200))

	w, err := svc.EffectiveWeight(pool.ART, alice, boosts)
	require.NoError(t, err)
	// 100 + 300 + 3800
	assert.Equal(t, "4200", w.String())

	p, err := svc.Position(pool.ART, alice, stakes.Term90, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(90*day), p.UnlockAt)

	// other pool is independent
	w, err = svc.EffectiveWeight(pool.GF, alice, boosts)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Sign())
}

func TestPositionCap(t *testing.T) {
	svc := newService(t)
	for range 3 {
		require.NoError(t, svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(1), 0, 3))
	}
	err := svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(1), 0, 3)
	assert.ErrorIs(t, err, ErrPositionCap)
	assert.Equal(t, reverts.KindCapacity, reverts.KindOf(err))

	// flex has no cap
	require.NoError(t, svc.Add(pool.ART, alice, stakes.TermFlex, big.NewInt(1), 0, 0))
}

func TestDeductOrder(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(pool.ART, alice, stakes.TermFlex, big.NewInt(50), 0, 200))
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(100), 0, 200))     // matures at 30d
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(70), 10*day, 200)) // matures at 40d
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term30, big.NewInt(40), 0, 200))      // matures at 30d
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term90, big.NewInt(500), 0, 200))

	now := uint64(35 * day)
	available, err := svc.Withdrawable(pool.ART, alice, now)
	require.NoError(t, err)
	assert.Equal(t, "190", available.String())

	_, err = svc.Deduct(pool.ART, alice, big.NewInt(191), now)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	touched, err := svc.Deduct(pool.ART, alice, big.NewInt(170), now)
	require.NoError(t, err)
	require.Len(t, touched, 3)

	assert.Equal(t, stakes.TermFlex, touched[0].Term)
	assert.Equal(t, "50", touched[0].Amount.String())

	// index 0 fully drained, swap-removed; the former last position moved into index 0
	assert.Equal(t, uint64(0), touched[1].Index)
	assert.Equal(t, "100", touched[1].Amount.String())
	assert.True(t, touched[1].Removed())

	assert.Equal(t, uint64(0), touched[2].Index)
	assert.Equal(t, "20", touched[2].Amount.String())
	assert.Equal(t, "20", touched[2].After.String())

	assert.Equal(t, []string{"20", "70"}, amounts(t, svc, stakes.Term30))
	assert.Equal(t, []string{"500"}, amounts(t, svc, stakes.Term90))

	acc, err := svc.Account(pool.ART, alice)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.FlexAmount.Sign())
}

func TestReduce(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term90, big.NewInt(10), 0, 200))
	require.NoError(t, svc.Add(pool.ART, alice, stakes.Term90, big.NewInt(20), 0, 200))

	_, err := svc.Reduce(pool.ART, alice, stakes.Term90, 2, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = svc.Reduce(pool.ART, alice, stakes.TermFlex, 0, big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidPosition)
	_, err = svc.Reduce(pool.ART, alice, stakes.Term90, 0, big.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	tch, err := svc.Reduce(pool.ART, alice, stakes.Term90, 0, big.NewInt(4))
	require.NoError(t, err)
	assert.False(t, tch.Removed())
	assert.Equal(t, []string{"6", "20"}, amounts(t, svc, stakes.Term90))

	tch, err = svc.Reduce(pool.ART, alice, stakes.Term90, 0, big.NewInt(6))
	require.NoError(t, err)
	assert.True(t, tch.Removed())
	assert.Equal(t, []string{"20"}, amounts(t, svc, stakes.Term90))

	n, err := svc.Count(pool.ART, alice, stakes.Term90)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}
