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

type vaultArgs struct {
	Stable gf.Address
	Amount *math.HexOrDecimal256
}

type settleArgs struct {
	ID    gf.Bytes32
	TxRef string
}

type requestsArgs struct {
	Account     *gf.Address
	Offset      uint64
	Limit       uint64
	PendingOnly bool
}

type vaultConfigArgs struct {
	Bps     uint64
	Amount  *math.HexOrDecimal256
	Address gf.Address
	Enabled bool
}

func init() {
	defines := []*nativeMethod{
		view("config", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Vault.Native(env.State()).Config()
		}),
		view("nav", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Vault.Native(env.State()).NAV()
		}),
		view("isStablecoin", func(env *xenv.Environment, args *vaultArgs) (any, error) {
			return Vault.Native(env.State()).IsStablecoin(args.Stable)
		}),
		view("previewMint", func(env *xenv.Environment, args *vaultArgs) (any, error) {
			return Vault.Native(env.State()).PreviewMint(amount(args.Amount))
		}),
		view("previewRedeem", func(env *xenv.Environment, args *vaultArgs) (any, error) {
			return Vault.Native(env.State()).PreviewRedeem(args.Stable, amount(args.Amount))
		}),
		view("request", func(env *xenv.Environment, args *settleArgs) (any, error) {
			return Vault.Native(env.State()).Request(args.ID)
		}),
		view("requestCount", func(env *xenv.Environment, _ *noArgs) (any, error) {
			return Vault.Native(env.State()).RequestCount()
		}),
		view("requests", func(env *xenv.Environment, args *requestsArgs) (any, error) {
			v := Vault.Native(env.State())
			if args.Account != nil {
				return v.UserRequests(*args.Account, args.Offset, args.Limit, args.PendingOnly)
			}
			return v.Requests(args.Offset, args.Limit, args.PendingOnly)
		}),

		call("mint", func(env *xenv.Environment, args *vaultArgs) (any, error) {
			return Vault.Native(env.State()).MintWithStable(env.Caller(), args.Stable, amount(args.Amount))
		}),
		call("redeem", func(env *xenv.Environment, args *vaultArgs) (any, error) {
			return Vault.Native(env.State()).RedeemToStable(
				env.Caller(),
				args.Stable,
				amount(args.Amount),
				env.BlockContext().Number,
				env.TransactionContext().Origin,
				env.Now(),
			)
		}),
		restricted("completeRedeem", roles.Operator, func(env *xenv.Environment, args *settleArgs) (any, error) {
			return Vault.Native(env.State()).CompleteRedeem(args.ID, args.TxRef, env.Now())
		}),
		restricted("cancelRedeem", roles.Operator, func(env *xenv.Environment, args *settleArgs) (any, error) {
			return Vault.Native(env.State()).CancelRedeem(args.ID)
		}),

		restricted("addStablecoin", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).AddStablecoin(args.Address)
		}),
		restricted("removeStablecoin", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).RemoveStablecoin(args.Address)
		}),
		restricted("setMintFee", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetMintFee(args.Bps)
		}),
		restricted("setRedeemFee", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetRedeemFee(args.Bps)
		}),
		restricted("setMinimumAmount", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetMinimumAmount(amount(args.Amount))
		}),
		restricted("setRecipient", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetRecipient(args.Address)
		}),
		restricted("setOracle", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetOracle(args.Address)
		}),
		restricted("setRegistry", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			return nil, Vault.Native(env.State()).SetRegistry(args.Address)
		}),
		restricted("setKYCEnforced", roles.Admin, func(env *xenv.Environment, args *vaultConfigArgs) (any, error) {
			Vault.Native(env.State()).SetKYCEnforced(args.Enabled)
			return nil, nil
		}),
	}
	for _, m := range defines {
		Vault.register(m)
	}
}
