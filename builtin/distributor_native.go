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

type scheduleArgs struct {
	ID          uint64
	Beneficiary gf.Address
	Category    string
	Total       *math.HexOrDecimal256
	Start       uint64
	Cliff       uint64
	Duration    uint64
}

type lockArgs struct {
	ID          uint64
	Beneficiary gf.Address
	Amount      *math.HexOrDecimal256
	Duration    uint64
}

func init() {
	defines := []*nativeMethod{
		view("categories", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Distributor.Native(env.State()).Categories()
		}),
		view("schedule", func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).Schedule(args.ID)
		}),
		view("schedulesOf", func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).SchedulesOf(args.Beneficiary)
		}),
		view("releasable", func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).Releasable(args.ID, env.Now())
		}),
		view("lock", func(env *xenv.Environment, args *lockArgs) (any, error) {
			return Distributor.Native(env.State()).Lock(args.ID)
		}),
		view("locksOf", func(env *xenv.Environment, args *lockArgs) (any, error) {
			return Distributor.Native(env.State()).LocksOf(args.Beneficiary)
		}),

		restricted("setCategory", roles.Admin, func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return nil, Distributor.Native(env.State()).SetCategory(args.Category, amount(args.Total))
		}),
		restricted("createSchedule", roles.Admin, func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).CreateSchedule(args.Beneficiary, args.Category, amount(args.Total), args.Start, args.Cliff, args.Duration)
		}),
		restricted("revoke", roles.Admin, func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).Revoke(args.ID, env.Now())
		}),
		call("release", func(env *xenv.Environment, args *scheduleArgs) (any, error) {
			return Distributor.Native(env.State()).Release(args.ID, env.Now())
		}),
		call("createLock", func(env *xenv.Environment, args *lockArgs) (any, error) {
			return Distributor.Native(env.State()).CreateLock(env.Caller(), args.Beneficiary, amount(args.Amount), args.Duration, env.Now())
		}),
		call("withdrawLock", func(env *xenv.Environment, args *lockArgs) (any, error) {
			return Distributor.Native(env.State()).WithdrawLock(args.ID, env.Caller(), env.Now())
		}),
	}
	for _, m := range defines {
		Distributor.register(m)
	}
}
