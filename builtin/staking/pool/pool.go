// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

// ID identifies a pool.
type ID uint8

const (
	ART ID = iota
	GF
)

var IDs = []ID{ART, GF}

func (id ID) Bytes() []byte {
	return []byte{byte(id)}
}

func (id ID) String() string {
	switch id {
	case ART:
		return "ART"
	case GF:
		return "GF"
	default:
		return "unknown"
	}
}

func (id ID) Valid() bool {
	return id <= GF
}

// Emission is the reward schedule shared by all pools.
type Emission struct {
	Base *big.Int // GF per year at 10000 bps
	End  uint64
}

// Pool is the accrual checkpoint and the weight buckets of one staked asset.
type Pool struct {
	Token         gf.Address
	AnnualRateBps uint64

	WeightedFlex  *big.Int
	Weighted30    *big.Int
	Weighted90    *big.Int
	WeightedTotal *big.Int

	TotalStakedFlex *big.Int
	TotalStaked30   *big.Int
	TotalStaked90   *big.Int
	TotalStaked     *big.Int

	RewardPerWeightStored *big.Int
	LastUpdateTime        uint64
}

func newPool(token gf.Address, rateBps, now uint64) *Pool {
	return &Pool{
		Token:                 token,
		AnnualRateBps:         rateBps,
		WeightedFlex:          new(big.Int),
		Weighted30:            new(big.Int),
		Weighted90:            new(big.Int),
		WeightedTotal:         new(big.Int),
		TotalStakedFlex:       new(big.Int),
		TotalStaked30:         new(big.Int),
		TotalStaked90:         new(big.Int),
		TotalStaked:           new(big.Int),
		RewardPerWeightStored: new(big.Int),
		LastUpdateTime:        now,
	}
}

func (p *Pool) exists() bool {
	return !p.Token.IsZero()
}

func (p *Pool) buckets(term stakes.Term) (weighted, staked *big.Int) {
	switch term {
	case stakes.Term30:
		return p.Weighted30, p.TotalStaked30
	case stakes.Term90:
		return p.Weighted90, p.TotalStaked90
	default:
		return p.WeightedFlex, p.TotalStakedFlex
	}
}

// Weighted returns the weight bucket of term.
func (p *Pool) Weighted(term stakes.Term) *big.Int {
	w, _ := p.buckets(term)
	return new(big.Int).Set(w)
}

// Staked returns the raw staked amount of term.
func (p *Pool) Staked(term stakes.Term) *big.Int {
	_, s := p.buckets(term)
	return new(big.Int).Set(s)
}

// Accrued returns the accumulator and the checkpoint time as they would be after a checkpoint at now.
// The pool is not modified.
func (p *Pool) Accrued(now uint64, em *Emission) (*big.Int, uint64) {
	stored := new(big.Int).Set(p.RewardPerWeightStored)
	current := min(now, em.End)
	if current <= p.LastUpdateTime {
		return stored, p.LastUpdateTime
	}
	if p.WeightedTotal.Sign() > 0 {
		elapsed := new(big.Int).SetUint64(current - p.LastUpdateTime)
		annual := new(big.Int).Mul(em.Base, new(big.Int).SetUint64(p.AnnualRateBps))
		annual.Quo(annual, new(big.Int).SetUint64(gf.BasisPoints))

		num := annual.Mul(annual, elapsed)
		num.Mul(num, new(big.Int).SetUint64(gf.RewardPrecision))
		den := new(big.Int).Mul(new(big.Int).SetUint64(gf.SecondsPerYear), p.WeightedTotal)
		stored.Add(stored, num.Quo(num, den))
	}
	return stored, current
}

// Checkpoint advances the accumulator to min(now, emission end).
// The checkpoint time moves even when nothing is staked so an idle period is never credited later.
func (p *Pool) Checkpoint(now uint64, em *Emission) {
	p.RewardPerWeightStored, p.LastUpdateTime = p.Accrued(now, em)
}

// Apply adds signed deltas to the buckets of term and recomputes the totals.
func (p *Pool) Apply(term stakes.Term, amountDelta, weightDelta *big.Int) {
	weighted, staked := p.buckets(term)
	weighted.Add(weighted, weightDelta)
	staked.Add(staked, amountDelta)

	p.WeightedTotal = new(big.Int).Add(p.WeightedFlex, p.Weighted30)
	p.WeightedTotal.Add(p.WeightedTotal, p.Weighted90)
	p.TotalStaked = new(big.Int).Add(p.TotalStakedFlex, p.TotalStaked30)
	p.TotalStaked.Add(p.TotalStaked, p.TotalStaked90)
}
