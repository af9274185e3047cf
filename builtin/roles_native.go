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

type roleArgs struct {
	Role    roles.Role
	Account gf.Address
}

func init() {
	Roles.register(call("grant", func(env *xenv.Environment, args *roleArgs) (any, error) {
		return Roles.Native(env.State()).Grant(env.Caller(), args.Role, args.Account)
	}))
	Roles.register(call("revoke", func(env *xenv.Environment, args *roleArgs) (any, error) {
		return Roles.Native(env.State()).Revoke(env.Caller(), args.Role, args.Account)
	}))
	Roles.register(view("has", func(env *xenv.Environment, args *roleArgs) (any, error) {
		return Roles.Native(env.State()).Has(args.Role, args.Account)
	}))
	Roles.register(view("members", func(env *xenv.Environment, args *roleArgs) (any, error) {
		return Roles.Native(env.State()).Members(args.Role)
	}))
}
