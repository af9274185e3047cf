// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gf

import (
	"math/big"
)

// Fixed-point and accounting constants.
const (
	USDDecimals uint8  = 6         // decimals of the USD accounting unit and of NAV prices.
	OneUSD      uint64 = 1_000_000 // 1.0 in the USD accounting unit.

	RewardPrecision uint64 = 1e12 // scale of the reward-per-weight accumulator.
	BoostPrecision  uint64 = 1e12 // scale of term boost multipliers.

	SecondsPerYear uint64 = 365 * 24 * 3600
	BasisPoints    uint64 = 10_000

	MaxMintFeeBps      uint64 = 1_000
	MaxRedeemFeeBps    uint64 = 1_000
	MaxEarlyPenaltyBps uint64 = 5_000

	DefaultMaxPositionsPerTerm uint64 = 200
	MaxPageSize                uint64 = 100
)

// KeyBestBlock holds the number and time of the last executed block.
var KeyBestBlock = BytesToBytes32([]byte("best-block"))

// Keys of governance params.
var (
	KeyMintFeeBps    = BytesToBytes32([]byte("vault-mint-fee-bps"))
	KeyRedeemFeeBps  = BytesToBytes32([]byte("vault-redeem-fee-bps"))
	KeyMinimumAmount = BytesToBytes32([]byte("vault-minimum-amount"))
	KeyKYCEnforced   = BytesToBytes32([]byte("vault-kyc-enforced"))
	KeyVaultReceiver = BytesToBytes32([]byte("vault-recipient"))
	KeyVaultOracle   = BytesToBytes32([]byte("vault-oracle"))
	KeyKYCRegistry   = BytesToBytes32([]byte("vault-kyc-registry"))

	KeyEmissionBase        = BytesToBytes32([]byte("staking-emission-base"))
	KeyEmissionEnd         = BytesToBytes32([]byte("staking-emission-end"))
	KeyEarlyPenaltyBps     = BytesToBytes32([]byte("staking-early-penalty-bps"))
	KeyMaxPositionsPerTerm = BytesToBytes32([]byte("staking-max-positions"))
	KeyStakingFeeReceiver  = BytesToBytes32([]byte("staking-fee-recipient"))
	KeyTermFlexEnabled     = BytesToBytes32([]byte("staking-term-flex-enabled"))
	KeyTerm30Enabled       = BytesToBytes32([]byte("staking-term-30-enabled"))
	KeyTerm90Enabled       = BytesToBytes32([]byte("staking-term-90-enabled"))
	KeyBoostFlex           = BytesToBytes32([]byte("staking-boost-flex"))
	KeyBoost30             = BytesToBytes32([]byte("staking-boost-30"))
	KeyBoost90             = BytesToBytes32([]byte("staking-boost-90"))
)

// Initial values of governance params.
var (
	InitialMintFeeBps    = big.NewInt(50)
	InitialRedeemFeeBps  = big.NewInt(50)
	InitialMinimumAmount = new(big.Int).SetUint64(10 * OneUSD)
	InitialPenaltyBps    = big.NewInt(500)
	InitialBoostFlex     = new(big.Int).SetUint64(BoostPrecision)
	InitialBoost30       = new(big.Int).SetUint64(BoostPrecision * 3 / 2)
	InitialBoost90       = new(big.Int).SetUint64(BoostPrecision * 38 / 10)
)

// Bool2Big encodes a switch as a param value.
func Bool2Big(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}
