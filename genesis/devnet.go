// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// DevAccount account for development.
type DevAccount struct {
	Address    gf.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns pre-alloced accounts for the dev network.
// The first is the admin, the second the operator.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{gf.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevUSDC is the stablecoin of the dev network.
var DevUSDC = gf.BytesToAddress([]byte("USDC"))

func units(n int64, decimals int) *Amount {
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return NewAmount(v.Mul(v, big.NewInt(n)))
}

// DevConfig is the configuration of the dev network.
func DevConfig() *Config {
	launchTime := uint64(1735689600) // 2025-01-01 00:00:00 UTC
	accs := DevAccounts()
	penalty := gf.InitialPenaltyBps.Uint64()

	cfg := &Config{
		Name:       "devnet",
		LaunchTime: launchTime,
		Admins:     []gf.Address{accs[0].Address},
		Operators:  []gf.Address{accs[1].Address},
		ART:        TokenConfig{Name: "Asset Reserve Token", Symbol: "ART", Decimals: 6},
		GF:         TokenConfig{Name: "GoldFinger", Symbol: "GF", Decimals: 18, Cap: units(1_000_000_000, 18)},
		Stablecoins: []Stablecoin{
			{TokenConfig: TokenConfig{Name: "USD Coin", Symbol: "USDC", Decimals: 6}, Address: DevUSDC},
		},
		Vault: VaultConfig{
			NAV:           units(100, 6),
			MintFeeBps:    gf.InitialMintFeeBps.Uint64(),
			RedeemFeeBps:  gf.InitialRedeemFeeBps.Uint64(),
			MinimumAmount: NewAmount(gf.InitialMinimumAmount),
			KYCEnforced:   true,
			Recipient:     accs[0].Address,
		},
		Staking: StakingConfig{
			EmissionBase:    units(10_000_000, 18),
			EmissionEnd:     launchTime + 5*gf.SecondsPerYear,
			EarlyPenaltyBps: &penalty,
			FeeRecipient:    accs[0].Address,
			Pools: []Pool{
				{Asset: "ART", RateBps: 10_000},
				{Asset: "GF", RateBps: 5_000},
			},
		},
		Categories: []Category{
			{Name: "team", Cap: units(150_000_000, 18)},
			{Name: "ecosystem", Cap: units(200_000_000, 18)},
		},
	}
	for i, acc := range accs {
		cfg.KYC = append(cfg.KYC, KYCRecord{Address: acc.Address, Name: "dev" + string(rune('0'+i))})
		cfg.Accounts = append(cfg.Accounts, Account{
			Address: acc.Address,
			Balances: map[string]*Amount{
				"USDC": units(1_000_000, 6),
				"GF":   units(100_000, 18),
			},
		})
	}
	return cfg
}

// NewDevnet create genesis for the dev network.
func NewDevnet() *Genesis {
	gen, err := NewCustomNet(DevConfig())
	if err != nil {
		panic(err)
	}
	return gen
}
