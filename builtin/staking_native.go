// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/GoldFingerRWA/goldfinger/builtin/roles"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/xenv"
)

type stakeArgs struct {
	Pool   pool.ID
	Term   stakes.Term
	Index  uint64
	Amount *math.HexOrDecimal256
}

type stakingQueryArgs struct {
	Pool    pool.ID
	Term    stakes.Term
	Account gf.Address
	Offset  uint64
	Limit   uint64
}

type stakingConfigArgs struct {
	Pool    pool.ID
	Term    stakes.Term
	Bps     uint64
	Max     uint64
	Enabled bool
	Account gf.Address
}

type earlyWithdrawal struct {
	Net     *math.HexOrDecimal256
	Penalty *math.HexOrDecimal256
}

func init() {
	defines := []*nativeMethod{
		view("pool", func(env *xenv.Environment, args *stakingQueryArgs) (any, error) {
			return Staking.Native(env.State()).Pool(args.Pool)
		}),
		view("emission", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Staking.Native(env.State()).Emission()
		}),
		view("previewPending", func(env *xenv.Environment, args *stakingQueryArgs) (any, error) {
			return Staking.Native(env.State()).PreviewPending(args.Pool, args.Account, env.Now())
		}),
		view("userSummary", func(env *xenv.Environment, args *stakingQueryArgs) (any, error) {
			return Staking.Native(env.State()).UserSummary(args.Pool, args.Account, env.Now())
		}),
		view("positions", func(env *xenv.Environment, args *stakingQueryArgs) (any, error) {
			return Staking.Native(env.State()).Positions(args.Pool, args.Account, args.Term, args.Offset, args.Limit)
		}),

		call("stake", func(env *xenv.Environment, args *stakeArgs) (any, error) {
			return nil, Staking.Native(env.State()).Stake(args.Pool, args.Term, env.Caller(), amount(args.Amount), env.Now())
		}),
		call("withdraw", func(env *xenv.Environment, args *stakeArgs) (any, error) {
			return nil, Staking.Native(env.State()).Withdraw(args.Pool, env.Caller(), amount(args.Amount), env.Now())
		}),
		call("withdrawSpecific", func(env *xenv.Environment, args *stakeArgs) (any, error) {
			return Staking.Native(env.State()).WithdrawSpecific(args.Pool, args.Term, args.Index, env.Caller(), env.Now())
		}),
		call("earlyWithdraw", func(env *xenv.Environment, args *stakeArgs) (any, error) {
			net, penalty, err := Staking.Native(env.State()).EarlyWithdraw(args.Pool, args.Term, args.Index, env.Caller(), amount(args.Amount), env.Now())
			if err != nil {
				return nil, err
			}
			return &earlyWithdrawal{(*math.HexOrDecimal256)(net), (*math.HexOrDecimal256)(penalty)}, nil
		}),
		call("claimRewards", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Staking.Native(env.State()).ClaimRewards(env.Caller(), env.Now())
		}),

		restricted("setPoolRate", roles.Admin, func(env *xenv.Environment, args *stakingConfigArgs) (any, error) {
			return nil, Staking.Native(env.State()).SetPoolRate(args.Pool, args.Bps, env.Now())
		}),
		restricted("setTermEnabled", roles.Admin, func(env *xenv.Environment, args *stakingConfigArgs) (any, error) {
			return nil, Staking.Native(env.State()).SetTermEnabled(args.Term, args.Enabled)
		}),
		restricted("setEarlyPenalty", roles.Admin, func(env *xenv.Environment, args *stakingConfigArgs) (any, error) {
			return nil, Staking.Native(env.State()).SetEarlyPenalty(args.Bps)
		}),
		restricted("setMaxPositions", roles.Admin, func(env *xenv.Environment, args *stakingConfigArgs) (any, error) {
			return nil, Staking.Native(env.State()).SetMaxPositions(args.Max)
		}),
		restricted("setFeeRecipient", roles.Admin, func(env *xenv.Environment, args *stakingConfigArgs) (any, error) {
			return nil, Staking.Native(env.State()).SetFeeRecipient(args.Account)
		}),
	}
	for _, m := range defines {
		Staking.register(m)
	}
}
