// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

type Pool struct {
	ID                    pool.ID       `json:"id"`
	Asset                 string        `json:"asset"`
	Token                 gf.Address    `json:"token"`
	AnnualRateBps         uint64        `json:"annualRateBps"`
	TotalStaked           *utils.Amount `json:"totalStaked"`
	TotalStakedFlex       *utils.Amount `json:"totalStakedFlex"`
	TotalStaked30         *utils.Amount `json:"totalStaked30"`
	TotalStaked90         *utils.Amount `json:"totalStaked90"`
	WeightedTotal         string        `json:"weightedTotal"`
	RewardPerWeightStored string        `json:"rewardPerWeightStored"`
	LastUpdateTime        uint64        `json:"lastUpdateTime"`
}

func convertPool(id pool.ID, p *pool.Pool, decimals uint8) *Pool {
	return &Pool{
		ID:                    id,
		Asset:                 id.String(),
		Token:                 p.Token,
		AnnualRateBps:         p.AnnualRateBps,
		TotalStaked:           utils.NewAmount(p.TotalStaked, decimals),
		TotalStakedFlex:       utils.NewAmount(p.TotalStakedFlex, decimals),
		TotalStaked30:         utils.NewAmount(p.TotalStaked30, decimals),
		TotalStaked90:         utils.NewAmount(p.TotalStaked90, decimals),
		WeightedTotal:         p.WeightedTotal.String(),
		RewardPerWeightStored: p.RewardPerWeightStored.String(),
		LastUpdateTime:        p.LastUpdateTime,
	}
}

type Emission struct {
	Base *utils.Amount `json:"base"`
	End  uint64        `json:"end"`
}

// Summary is the view of a user at the time of the next block.
type Summary struct {
	Time            uint64        `json:"time"`
	FlexAmount      *utils.Amount `json:"flexAmount"`
	Count30         uint64        `json:"count30"`
	Count90         uint64        `json:"count90"`
	PendingRewards  *utils.Amount `json:"pendingRewards"`
	EffectiveWeight string        `json:"effectiveWeight"`
	Withdrawable    *utils.Amount `json:"withdrawable"`
}

func convertSummary(s *staking.Summary, now uint64, decimals, rewardDecimals uint8) *Summary {
	return &Summary{
		Time:            now,
		FlexAmount:      utils.NewAmount(s.FlexAmount, decimals),
		Count30:         s.Count30,
		Count90:         s.Count90,
		PendingRewards:  utils.NewAmount(s.PendingRewards, rewardDecimals),
		EffectiveWeight: s.EffectiveWeight.String(),
		Withdrawable:    utils.NewAmount(s.Withdrawable, decimals),
	}
}

type Position struct {
	Index    uint64        `json:"index"`
	Term     stakes.Term   `json:"term"`
	Amount   *utils.Amount `json:"amount"`
	UnlockAt uint64        `json:"unlockAt"`
	Matured  bool          `json:"matured"`
}
