// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

func poolOf(asset string) (pool.ID, gf.Address, error) {
	switch asset {
	case "ART":
		return pool.ART, builtin.ART.Address, nil
	case "GF":
		return pool.GF, builtin.GF.Address, nil
	}
	return 0, gf.Address{}, errors.Errorf("unknown pool asset %q", asset)
}

func (c *TokenConfig) meta() (*token.Meta, error) {
	if c.Symbol == "" {
		return nil, errors.New("token symbol must be set")
	}
	name := c.Name
	if name == "" {
		name = c.Symbol
	}
	return &token.Meta{Name: name, Symbol: c.Symbol, Decimals: c.Decimals, Cap: c.Cap.Int()}, nil
}

func (cfg *Config) validate() error {
	if cfg.LaunchTime == 0 {
		return errors.New("launchTime must be set")
	}
	if len(cfg.Admins) == 0 {
		return errors.New("at least one admin")
	}
	if cfg.ART.Decimals != gf.USDDecimals {
		return errors.Errorf("art decimals must be %d", gf.USDDecimals)
	}
	if cfg.Staking.EmissionEnd != 0 && cfg.Staking.EmissionEnd <= cfg.LaunchTime {
		return errors.New("staking emission must end after launch")
	}
	for _, s := range cfg.Stablecoins {
		if s.Address.IsZero() {
			return errors.Errorf("stablecoin %s: address must be set", s.Symbol)
		}
	}
	return nil
}

// NewCustomNet creates the genesis described by cfg.
func NewCustomNet(cfg *Config) (*Genesis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	launchTime := cfg.LaunchTime
	admin := cfg.Admins[0]

	builder := new(Builder).
		Timestamp(launchTime).
		State(func(st *state.State) error {
			r := builtin.Roles.Native(st)
			for _, addr := range cfg.Admins {
				if _, err := r.Add(roles.Admin, addr); err != nil {
					return err
				}
			}
			for _, addr := range cfg.Operators {
				if _, err := r.Add(roles.Operator, addr); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			// symbol => token address, for prefunding
			symbols := make(map[string]gf.Address)
			initToken := func(addr gf.Address, c *TokenConfig) error {
				meta, err := c.meta()
				if err != nil {
					return err
				}
				if _, dup := symbols[meta.Symbol]; dup {
					return errors.Errorf("duplicate token symbol %s", meta.Symbol)
				}
				symbols[meta.Symbol] = addr
				return builtin.Token(addr, st).Initialize(meta)
			}
			if err := initToken(builtin.ART.Address, &cfg.ART); err != nil {
				return errors.WithMessage(err, "art")
			}
			if err := initToken(builtin.GF.Address, &cfg.GF); err != nil {
				return errors.WithMessage(err, "gf")
			}
			for i := range cfg.Stablecoins {
				s := &cfg.Stablecoins[i]
				if err := initToken(s.Address, &s.TokenConfig); err != nil {
					return errors.WithMessage(err, s.Symbol)
				}
			}
			if err := builtin.ART.Native(st).SetMinter(builtin.Vault.Address, true); err != nil {
				return err
			}
			if err := builtin.GF.Native(st).SetMinter(builtin.Staking.Address, true); err != nil {
				return err
			}

			for _, acc := range cfg.Accounts {
				for symbol, amount := range acc.Balances {
					addr, ok := symbols[symbol]
					if !ok {
						return errors.Errorf("%s: unknown token %s", acc.Address, symbol)
					}
					if err := builtin.Token(addr, st).MintGenesis(acc.Address, amount.Int()); err != nil {
						return errors.WithMessagef(err, "%s: %s", acc.Address, symbol)
					}
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			p := builtin.Params.Native(st)
			p.Set(gf.KeyBoostFlex, gf.InitialBoostFlex)
			p.Set(gf.KeyBoost30, gf.InitialBoost30)
			p.Set(gf.KeyBoost90, gf.InitialBoost90)
			for _, term := range stakes.Terms {
				p.Set(term.EnabledKey(), gf.Bool2Big(true))
			}
			p.Set(gf.KeyEmissionBase, cfg.Staking.EmissionBase.Int())
			p.Set(gf.KeyEmissionEnd, new(big.Int).SetUint64(cfg.Staking.EmissionEnd))
			p.Set(gf.KeyEarlyPenaltyBps, gf.InitialPenaltyBps)
			p.Set(gf.KeyMaxPositionsPerTerm, new(big.Int).SetUint64(gf.DefaultMaxPositionsPerTerm))
			p.Set(gf.KeyMintFeeBps, gf.InitialMintFeeBps)
			p.Set(gf.KeyRedeemFeeBps, gf.InitialRedeemFeeBps)
			p.Set(gf.KeyMinimumAmount, gf.InitialMinimumAmount)

			s := builtin.Staking.Native(st)
			for _, pc := range cfg.Staking.Pools {
				id, addr, err := poolOf(pc.Asset)
				if err != nil {
					return err
				}
				if err := s.CreatePool(id, addr, pc.RateBps, launchTime); err != nil {
					return errors.WithMessage(err, pc.Asset)
				}
			}

			if nav := cfg.Vault.NAV; nav != nil {
				if err := builtin.Oracle.Native(st).SetPrice(builtin.ART.Address, nav.Int(), launchTime); err != nil {
					return errors.WithMessage(err, "nav")
				}
			}
			k := builtin.KYC.Native(st)
			for _, rec := range cfg.KYC {
				if err := k.Approve(rec.Address, rec.Name, launchTime); err != nil {
					return errors.WithMessagef(err, "kyc %s", rec.Address)
				}
			}

			d := builtin.Distributor.Native(st)
			funding := new(big.Int)
			for _, c := range cfg.Categories {
				if err := d.SetCategory(c.Name, c.Cap.Int()); err != nil {
					return errors.WithMessagef(err, "category %s", c.Name)
				}
				funding.Add(funding, c.Cap.Int())
			}
			if funding.Sign() > 0 {
				if err := builtin.GF.Native(st).MintGenesis(builtin.Distributor.Address, funding); err != nil {
					return errors.WithMessage(err, "fund distributor")
				}
			}
			return nil
		})

	// configure through the admin surface, so the same validation applies
	vaultCall := func(method string, args map[string]any) {
		builder.Call(tx.NewClause(builtin.Vault.Address, method).MustWithArgs(args), admin)
	}
	stakingCall := func(method string, args map[string]any) {
		builder.Call(tx.NewClause(builtin.Staking.Address, method).MustWithArgs(args), admin)
	}

	vaultCall("setMintFee", map[string]any{"bps": cfg.Vault.MintFeeBps})
	vaultCall("setRedeemFee", map[string]any{"bps": cfg.Vault.RedeemFeeBps})
	if cfg.Vault.MinimumAmount != nil {
		vaultCall("setMinimumAmount", map[string]any{"amount": cfg.Vault.MinimumAmount.Int().String()})
	}
	vaultCall("setKYCEnforced", map[string]any{"enabled": cfg.Vault.KYCEnforced})
	vaultCall("setOracle", map[string]any{"address": builtin.Oracle.Address})
	vaultCall("setRegistry", map[string]any{"address": builtin.KYC.Address})
	if !cfg.Vault.Recipient.IsZero() {
		vaultCall("setRecipient", map[string]any{"address": cfg.Vault.Recipient})
	}
	for _, s := range cfg.Stablecoins {
		vaultCall("addStablecoin", map[string]any{"address": s.Address})
	}

	if cfg.Staking.EarlyPenaltyBps != nil {
		stakingCall("setEarlyPenalty", map[string]any{"bps": *cfg.Staking.EarlyPenaltyBps})
	}
	if cfg.Staking.MaxPositions != 0 {
		stakingCall("setMaxPositions", map[string]any{"max": cfg.Staking.MaxPositions})
	}
	if !cfg.Staking.FeeRecipient.IsZero() {
		stakingCall("setFeeRecipient", map[string]any{"account": cfg.Staking.FeeRecipient})
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("customnet-%d", launchTime)
	}
	return &Genesis{builder, name, launchTime}, nil
}
