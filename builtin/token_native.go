// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

type transferArgs struct {
	From   gf.Address
	To     gf.Address
	Amount *math.HexOrDecimal256
}

type holderArgs struct {
	Owner   gf.Address
	Spender gf.Address
	Account gf.Address
}

type minterArgs struct {
	Account gf.Address
	Enabled bool
}

func registerToken(m *nativeMethod) {
	if _, dup := tokenMethods[m.name]; dup {
		panic("token method registered twice: " + m.name)
	}
	tokenMethods[m.name] = m
}

// self binds the token ledger at the called address.
func self(env *xenv.Environment) *token.Token {
	return token.New(env.TransactionContext().To, env.State())
}

func init() {
	registerToken(view("name", func(env *xenv.Environment, _ *noArgs) (any, error) {
		meta, err := self(env).Meta()
		if err != nil {
			return nil, err
		}
		return meta.Name, nil
	}))
	registerToken(view("symbol", func(env *xenv.Environment, _ *noArgs) (any, error) {
		meta, err := self(env).Meta()
		if err != nil {
			return nil, err
		}
		return meta.Symbol, nil
	}))
	registerToken(view("decimals", func(env *xenv.Environment, _ *noArgs) (any, error) {
		return self(env).Decimals()
	}))
	registerToken(view("cap", func(env *xenv.Environment, _ *noArgs) (any, error) {
		meta, err := self(env).Meta()
		if err != nil {
			return nil, err
		}
		return meta.Cap, nil
	}))
	registerToken(view("totalSupply", func(env *xenv.Environment, _ *noArgs) (any, error) {
		return self(env).TotalSupply()
	}))
	registerToken(view("balanceOf", func(env *xenv.Environment, args *holderArgs) (any, error) {
		return self(env).BalanceOf(args.Account)
	}))
	registerToken(view("allowance", func(env *xenv.Environment, args *holderArgs) (any, error) {
		return self(env).Allowance(args.Owner, args.Spender)
	}))
	registerToken(view("isMinter", func(env *xenv.Environment, args *holderArgs) (any, error) {
		return self(env).IsMinter(args.Account)
	}))

	registerToken(call("transfer", func(env *xenv.Environment, args *transferArgs) (any, error) {
		return nil, self(env).Transfer(env.Caller(), args.To, amount(args.Amount))
	}))
	registerToken(call("approve", func(env *xenv.Environment, args *struct {
		Spender gf.Address
		Amount  *math.HexOrDecimal256
	}) (any, error) {
		return nil, self(env).Approve(env.Caller(), args.Spender, amount(args.Amount))
	}))
	registerToken(call("transferFrom", func(env *xenv.Environment, args *transferArgs) (any, error) {
		return nil, self(env).TransferFrom(env.Caller(), args.From, args.To, amount(args.Amount))
	}))
	registerToken(restricted("setMinter", roles.Admin, func(env *xenv.Environment, args *minterArgs) (any, error) {
		return nil, self(env).SetMinter(args.Account, args.Enabled)
	}))
}
