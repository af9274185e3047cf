// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

type kycArgs struct {
	Account gf.Address
	Name    string
}

func init() {
	KYC.register(restricted("approve", roles.Operator, func(env *xenv.Environment, args *kycArgs) (any, error) {
		return nil, KYC.Native(env.State()).Approve(args.Account, args.Name, env.Now())
	}))
	KYC.register(restricted("revoke", roles.Operator, func(env *xenv.Environment, args *kycArgs) (any, error) {
		return nil, KYC.Native(env.State()).Revoke(args.Account)
	}))
	KYC.register(view("isApproved", func(env *xenv.Environment, args *kycArgs) (any, error) {
		return KYC.Native(env.State()).IsKYCApproved(args.Account)
	}))
	KYC.register(view("record", func(env *xenv.Environment, args *kycArgs) (any, error) {
		return KYC.Native(env.State()).Record(args.Account)
	}))
}
