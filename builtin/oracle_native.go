// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

type priceArgs struct {
	Asset gf.Address
	Price *math.HexOrDecimal256
}

func init() {
	Oracle.register(restricted("setPrice", roles.Operator, func(env *xenv.Environment, args *priceArgs) (any, error) {
		return nil, Oracle.Native(env.State()).SetPrice(args.Asset, amount(args.Price), env.Now())
	}))
	Oracle.register(view("getPrice", func(env *xenv.Environment, args *priceArgs) (any, error) {
		return Oracle.Native(env.State()).GetPrice(args.Asset)
	}))
	Oracle.register(view("updatedAt", func(env *xenv.Environment, args *priceArgs) (any, error) {
		return Oracle.Native(env.State()).UpdatedAt(args.Asset)
	}))
}
