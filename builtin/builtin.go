// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/GoldFingerRWA/goldfinger/builtin/distributor"
	"github.com/GoldFingerRWA/goldfinger/builtin/kyc"
	"github.com/GoldFingerRWA/goldfinger/builtin/oracle"
	"github.com/GoldFingerRWA/goldfinger/builtin/params"
	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
)

// Builtin contracts binding.
var (
	Params      = &paramsContract{newContract("Params")}
	Roles       = &rolesContract{newContract("Roles")}
	ART         = &tokenContract{newContract("ART")}
	GF          = &tokenContract{newContract("GF")}
	Oracle      = &oracleContract{newContract("Oracle")}
	KYC         = &kycContract{newContract("KYC")}
	Staking     = &stakingContract{newContract("Staking")}
	Vault       = &vaultContract{newContract("Vault")}
	Distributor = &distributorContract{newContract("Distributor")}
)

type (
	paramsContract      struct{ *contract }
	rolesContract       struct{ *contract }
	tokenContract       struct{ *contract }
	oracleContract      struct{ *contract }
	kycContract         struct{ *contract }
	stakingContract     struct{ *contract }
	vaultContract       struct{ *contract }
	distributorContract struct{ *contract }
)

func (p *paramsContract) Native(state *state.State) *params.Params {
	return params.New(p.Address, state)
}

func (r *rolesContract) Native(state *state.State) *roles.Roles {
	return roles.New(r.Address, state)
}

func (t *tokenContract) Native(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

// Token binds the token ledger at any address, used for stablecoins.
func Token(addr gf.Address, state *state.State) *token.Token {
	return token.New(addr, state)
}

func (o *oracleContract) Native(state *state.State) *oracle.Oracle {
	return oracle.New(o.Address, state)
}

func (k *kycContract) Native(state *state.State) *kyc.Registry {
	return kyc.New(k.Address, state)
}

func (s *stakingContract) Native(state *state.State) *staking.Staking {
	return staking.New(s.Address, state, Params.Native(state), GF.Address)
}

func (v *vaultContract) Native(state *state.State) *vault.Vault {
	return vault.New(v.Address, state, Params.Native(state), ART.Address)
}

func (d *distributorContract) Native(state *state.State) *distributor.Distributor {
	return distributor.New(d.Address, state, GF.Address)
}
