// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin/params"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/lvldb"
	"github.com/GoldFingerRWA/goldfinger/state"
)

const day = 24 * 3600

var (
	stakingAddr = gf.BytesToAddress([]byte("Staking"))
	paramsAddr  = gf.BytesToAddress([]byte("Params"))
	artAddr     = gf.BytesToAddress([]byte("ART"))
	gfAddr      = gf.BytesToAddress([]byte("GF"))
	treasury    = gf.BytesToAddress([]byte("treasury"))

	alice = gf.BytesToAddress([]byte("alice"))
	bob   = gf.BytesToAddress([]byte("bob"))

	// 1000 reward units per second when a pool runs at 10000 bps
	emissionBase = new(big.Int).SetUint64(gf.SecondsPerYear * 1000)
	emissionEnd  = uint64(1_000 * day)
)

type testEnv struct {
	state   *state.State
	params  *params.Params
	staking *Staking
	art     *token.Token
	gf      *token.Token
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	p := params.New(paramsAddr, st)
	p.Set(gf.KeyEmissionBase, emissionBase)
	p.Set(gf.KeyEmissionEnd, new(big.Int).SetUint64(emissionEnd))
	p.Set(gf.KeyEarlyPenaltyBps, gf.InitialPenaltyBps)
	p.Set(gf.KeyMaxPositionsPerTerm, new(big.Int).SetUint64(gf.DefaultMaxPositionsPerTerm))
	p.SetAddress(gf.KeyStakingFeeReceiver, treasury)
	p.Set(gf.KeyBoostFlex, gf.InitialBoostFlex)
	p.Set(gf.KeyBoost30, gf.InitialBoost30)
	p.Set(gf.KeyBoost90, gf.InitialBoost90)
	for _, term := range stakes.Terms {
		p.Set(term.EnabledKey(), gf.Bool2Big(true))
	}

	art := token.New(artAddr, st)
	require.NoError(t, art.Initialize(&token.Meta{Name: "ART", Symbol: "ART", Decimals: 6}))
	gft := token.New(gfAddr, st)
	require.NoError(t, gft.Initialize(&token.Meta{Name: "GoldFinger", Symbol: "GF", Decimals: 18}))
	require.NoError(t, gft.SetMinter(stakingAddr, true))

	allowance := big.NewInt(1e15)
	for _, user := range []gf.Address{alice, bob} {
		require.NoError(t, art.MintGenesis(user, big.NewInt(1e9)))
		require.NoError(t, gft.MintGenesis(user, big.NewInt(1e9)))
		require.NoError(t, art.Approve(user, stakingAddr, allowance))
		require.NoError(t, gft.Approve(user, stakingAddr, allowance))
	}

	s := New(stakingAddr, st, p, gfAddr)
	require.NoError(t, s.CreatePool(pool.ART, artAddr, 10_000, 0))
	require.NoError(t, s.CreatePool(pool.GF, gfAddr, 5_000, 0))

	return &testEnv{state: st, params: p, staking: s, art: art, gf: gft}
}

func (e *testEnv) balance(t *testing.T, tok *token.Token, addr gf.Address) string {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal.String()
}

// assertInvariants checks that every bucket is the sum of the members' weights
// and that the pool holds exactly what is staked.
func (e *testEnv) assertInvariants(t *testing.T, id pool.ID, users ...gf.Address) {
	p, err := e.staking.Pool(id)
	require.NoError(t, err)

	sum := new(big.Int).Add(p.WeightedFlex, p.Weighted30)
	sum.Add(sum, p.Weighted90)
	assert.Equal(t, sum.String(), p.WeightedTotal.String(), "weighted total")

	staked := new(big.Int).Add(p.TotalStakedFlex, p.TotalStaked30)
	staked.Add(staked, p.TotalStaked90)
	assert.Equal(t, staked.String(), p.TotalStaked.String(), "staked total")

	boosts, err := e.staking.boosts()
	require.NoError(t, err)
	weights := new(big.Int)
	for _, user := range users {
		w, err := e.staking.positionService.EffectiveWeight(id, user, boosts)
		require.NoError(t, err)
		weights.Add(weights, w)
	}
	assert.Equal(t, p.WeightedTotal.String(), weights.String(), "sum of user weights")

	held, err := token.New(p.Token, e.state).BalanceOf(stakingAddr)
	require.NoError(t, err)
	assert.Equal(t, p.TotalStaked.String(), held.String(), "pool balance")
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(id pool.ID, term stakes.Term, user gf.Address, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staking.Stake(id, term, user, big.NewInt(amount), now); err != nil {
			t.Fatalf("failed to stake %d for %s: %v", amount, user, err)
		}
		t.Logf("staked %d %s for %s", amount, term, user)
	})
}

func (st *TestSequence) Withdraw(id pool.ID, user gf.Address, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.env.staking.Withdraw(id, user, big.NewInt(amount), now); err != nil {
			t.Fatalf("failed to withdraw %d for %s: %v", amount, user, err)
		}
		t.Logf("withdrawn %d for %s", amount, user)
	})
}

func (st *TestSequence) EarlyWithdraw(id pool.ID, term stakes.Term, index uint64, user gf.Address, amount int64, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if _, _, err := st.env.staking.EarlyWithdraw(id, term, index, user, big.NewInt(amount), now); err != nil {
			t.Fatalf("failed to early withdraw %d for %s: %v", amount, user, err)
		}
	})
}

func (st *TestSequence) AssertPending(id pool.ID, user gf.Address, now uint64, expected int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		pending, err := st.env.staking.PreviewPending(id, user, now)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(expected).String(), pending.String(), "pending of %s at %d", user, now)
	})
}

func (st *TestSequence) AssertInvariants(id pool.ID, users ...gf.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.assertInvariants(t, id, users...)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	for _, f := range st.funcs {
		f(t)
	}
}
