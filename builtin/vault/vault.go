// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault mints ART against stablecoins at the oracle NAV and settles
// redemptions through a two-phase request ledger: ART is burnt on submission,
// an operator completes the request once the off-chain payout is done.
package vault

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/kyc"
	"github.com/GoldFingerRWA/goldfinger/builtin/oracle"
	"github.com/GoldFingerRWA/goldfinger/builtin/params"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault/request"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	logger = log.New("pkg", "vault")

	ErrInvalidNAV          = reverts.New(reverts.KindDependency, "invalid nav")
	ErrZeroAmount          = reverts.New(reverts.KindValidation, "zero amount")
	ErrZeroAddress         = reverts.New(reverts.KindValidation, "zero address")
	ErrBelowMinimum        = reverts.New(reverts.KindValidation, "amount below minimum")
	ErrFeeTooHigh          = reverts.New(reverts.KindValidation, "fee exceeds cap")
	ErrUnsupportedStable   = reverts.New(reverts.KindValidation, "unsupported stablecoin")
	ErrUnsupportedDecimals = reverts.New(reverts.KindValidation, "stablecoin decimals below 6")
	ErrUnknownToken        = reverts.New(reverts.KindValidation, "unknown token")
	ErrNotPending          = reverts.New(reverts.KindState, "request not pending")
	ErrEmptyTxRef          = reverts.New(reverts.KindValidation, "empty payout reference")
	ErrRecipientUnset      = reverts.New(reverts.KindState, "recipient not set")

	slotStables       = gf.BytesToBytes32([]byte("stablecoins"))
	slotStableIndexes = gf.BytesToBytes32([]byte("stablecoin-indexes"))
)

// Config is the current vault configuration.
type Config struct {
	MintFeeBps    uint64
	RedeemFeeBps  uint64
	MinimumAmount *big.Int
	KYCEnforced   bool
	Recipient     gf.Address
	Oracle        gf.Address
	Registry      gf.Address
	Stablecoins   []gf.Address
}

// Vault implements native methods of `Vault` contract.
type Vault struct {
	addr   gf.Address
	art    gf.Address
	state  *state.State
	params *params.Params

	requests      *request.Service
	stables       *solidity.Array[gf.Address]
	stableIndexes *solidity.Mapping[gf.Address, uint64]
}

// New create a new instance minting and burning the art token.
func New(addr gf.Address, state *state.State, params *params.Params, art gf.Address) *Vault {
	sctx := solidity.NewContext(addr, state)
	return &Vault{
		addr:          addr,
		art:           art,
		state:         state,
		params:        params,
		requests:      request.New(sctx),
		stables:       solidity.NewArray[gf.Address](sctx, slotStables),
		stableIndexes: solidity.NewMapping[gf.Address, uint64](sctx, slotStableIndexes),
	}
}

func (v *Vault) emit(name string, account gf.Address, ref gf.Bytes32, amount *big.Int, data map[string]string) {
	v.state.AddEvent(&tx.Event{
		Address: v.addr,
		Name:    name,
		Account: account,
		Ref:     ref,
		Amount:  new(big.Int).Set(amount),
		Data:    data,
	})
}

//
// Getters - no state change
//

func (v *Vault) Config() (*Config, error) {
	var (
		cfg = &Config{}
		err error
	)
	if cfg.MintFeeBps, err = v.params.GetUint64(gf.KeyMintFeeBps); err != nil {
		return nil, err
	}
	if cfg.RedeemFeeBps, err = v.params.GetUint64(gf.KeyRedeemFeeBps); err != nil {
		return nil, err
	}
	if cfg.MinimumAmount, err = v.params.Get(gf.KeyMinimumAmount); err != nil {
		return nil, err
	}
	if cfg.KYCEnforced, err = v.params.GetBool(gf.KeyKYCEnforced); err != nil {
		return nil, err
	}
	if cfg.Recipient, err = v.params.GetAddress(gf.KeyVaultReceiver); err != nil {
		return nil, err
	}
	if cfg.Oracle, err = v.params.GetAddress(gf.KeyVaultOracle); err != nil {
		return nil, err
	}
	if cfg.Registry, err = v.params.GetAddress(gf.KeyKYCRegistry); err != nil {
		return nil, err
	}
	if cfg.Stablecoins, err = v.stables.Slice(0, ^uint64(0)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NAV reads the ART price from the configured oracle.
func (v *Vault) NAV() (*big.Int, error) {
	addr, err := v.params.GetAddress(gf.KeyVaultOracle)
	if err != nil {
		return nil, err
	}
	if addr.IsZero() {
		return nil, ErrInvalidNAV
	}
	nav, err := oracle.New(addr, v.state).GetPrice(v.art)
	if err != nil {
		if errors.Is(err, oracle.ErrPriceNotSet) {
			return nil, ErrInvalidNAV
		}
		return nil, err
	}
	if nav.Sign() == 0 {
		return nil, ErrInvalidNAV
	}
	return nav, nil
}

func (v *Vault) IsStablecoin(addr gf.Address) (bool, error) {
	idx, err := v.stableIndexes.Get(addr)
	if err != nil {
		return false, err
	}
	return idx > 0, nil
}

func (v *Vault) stableDecimals(stable gf.Address) (uint8, error) {
	ok, err := v.IsStablecoin(stable)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrUnsupportedStable
	}
	return token.New(stable, v.state).Decimals()
}

func (v *Vault) PreviewMint(usd *big.Int) (*MintPreview, error) {
	nav, err := v.NAV()
	if err != nil {
		return nil, err
	}
	bps, err := v.params.GetUint64(gf.KeyMintFeeBps)
	if err != nil {
		return nil, err
	}
	return PreviewMint(usd, nav, bps)
}

// PreviewRedeem prices art at the current NAV; TokenNetOut is filled when stable is registered.
func (v *Vault) PreviewRedeem(stable gf.Address, art *big.Int) (*RedeemPreview, error) {
	nav, err := v.NAV()
	if err != nil {
		return nil, err
	}
	bps, err := v.params.GetUint64(gf.KeyRedeemFeeBps)
	if err != nil {
		return nil, err
	}
	preview, err := PreviewRedeem(art, nav, bps)
	if err != nil {
		return nil, err
	}
	if stable.IsZero() {
		return preview, nil
	}
	decimals, err := v.stableDecimals(stable)
	if err != nil {
		return nil, err
	}
	if preview.TokenNetOut, err = fixedpoint.ScaleFromUSD6(preview.UsdNet, decimals); err != nil {
		return nil, err
	}
	return preview, nil
}

func (v *Vault) Request(id gf.Bytes32) (*request.Request, error) {
	return v.requests.Get(id)
}

func (v *Vault) Requests(offset, limit uint64, pendingOnly bool) ([]*request.Request, error) {
	return v.requests.List(offset, limit, pendingOnly)
}

func (v *Vault) UserRequests(user gf.Address, offset, limit uint64, pendingOnly bool) ([]*request.Request, error) {
	return v.requests.UserList(user, offset, limit, pendingOnly)
}

func (v *Vault) RequestCount() (uint64, error) {
	return v.requests.Count()
}

//
// Setters - state change
//

func (v *Vault) requireKYC(account gf.Address) error {
	enforced, err := v.params.GetBool(gf.KeyKYCEnforced)
	if err != nil {
		return err
	}
	if !enforced {
		return nil
	}
	registry, err := v.params.GetAddress(gf.KeyKYCRegistry)
	if err != nil {
		return err
	}
	return kyc.New(registry, v.state).Require(account)
}

func (v *Vault) requireMinimum(usd *big.Int) error {
	minimum, err := v.params.Get(gf.KeyMinimumAmount)
	if err != nil {
		return err
	}
	if usd.Cmp(minimum) < 0 {
		return ErrBelowMinimum
	}
	return nil
}

// MintWithStable takes usd worth of stable from caller to the recipient and mints the net ART to caller.
func (v *Vault) MintWithStable(caller, stable gf.Address, usd *big.Int) (*MintPreview, error) {
	logger.Debug("mint", "caller", caller, "stable", stable, "usd", usd)
	if usd.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if err := v.requireMinimum(usd); err != nil {
		return nil, err
	}
	decimals, err := v.stableDecimals(stable)
	if err != nil {
		return nil, err
	}
	if err := v.requireKYC(caller); err != nil {
		return nil, err
	}
	preview, err := v.PreviewMint(usd)
	if err != nil {
		return nil, err
	}
	recipient, err := v.params.GetAddress(gf.KeyVaultReceiver)
	if err != nil {
		return nil, err
	}
	if recipient.IsZero() {
		return nil, ErrRecipientUnset
	}
	paid, err := fixedpoint.ScaleFromUSD6(usd, decimals)
	if err != nil {
		return nil, err
	}

	if err := token.New(stable, v.state).TransferFrom(v.addr, caller, recipient, paid); err != nil {
		return nil, errors.WithMessage(err, "pull stablecoin")
	}
	if err := token.New(v.art, v.state).Mint(v.addr, caller, preview.Net); err != nil {
		return nil, errors.WithMessage(err, "mint art")
	}

	v.emit("Minted", caller, gf.Bytes32{}, preview.Net, map[string]string{
		"stable": stable.String(),
		"usd":    usd.String(),
		"paid":   paid.String(),
		"gross":  preview.Gross.String(),
		"fee":    preview.Fee.String(),
		"nav":    preview.NAV.String(),
	})
	logger.Info("minted", "caller", caller, "net", preview.Net, "fee", preview.Fee, "nav", preview.NAV)
	return preview, nil
}

// RedeemToStable burns art from caller and records a pending request paying out in stable.
// The request id is derived from caller, amount, block number and origin.
func (v *Vault) RedeemToStable(caller, stable gf.Address, art *big.Int, blockNumber uint64, origin gf.Address, now uint64) (*request.Request, error) {
	logger.Debug("redeem", "caller", caller, "stable", stable, "art", art)
	if art.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if stable.IsZero() {
		return nil, ErrUnsupportedStable
	}
	if err := v.requireKYC(caller); err != nil {
		return nil, err
	}
	preview, err := v.PreviewRedeem(stable, art)
	if err != nil {
		return nil, err
	}
	if err := v.requireMinimum(preview.UsdGross); err != nil {
		return nil, err
	}

	req := &request.Request{
		ID:          request.NewID(caller, art, blockNumber, origin),
		Account:     caller,
		StableToken: stable,
		ArtAmount:   new(big.Int).Set(art),
		NAV:         preview.NAV,
		UsdGross:    preview.UsdGross,
		UsdFee:      preview.UsdFee,
		UsdNet:      preview.UsdNet,
		TokenNetOut: preview.TokenNetOut,
		CreatedAt:   now,
		Status:      request.StatusPending,
	}
	if err := v.requests.Add(req); err != nil {
		if errors.Is(err, request.ErrDuplicateRequestID) {
			logger.Warn("redeem request id collision", "id", req.ID, "caller", caller)
		}
		return nil, err
	}
	if err := token.New(v.art, v.state).BurnFrom(v.addr, caller, art); err != nil {
		return nil, errors.WithMessage(err, "burn art")
	}

	v.emit("RedeemRequested", caller, req.ID, art, map[string]string{
		"stable":      stable.String(),
		"usdGross":    req.UsdGross.String(),
		"usdFee":      req.UsdFee.String(),
		"usdNet":      req.UsdNet.String(),
		"tokenNetOut": req.TokenNetOut.String(),
		"nav":         req.NAV.String(),
	})
	logger.Info("redeem requested", "id", req.ID, "caller", caller, "art", art, "usdNet", req.UsdNet)
	return req, nil
}

func (v *Vault) pending(id gf.Bytes32) (*request.Request, error) {
	req, err := v.requests.Get(id)
	if err != nil {
		return nil, err
	}
	if !req.Pending() {
		return nil, errors.WithMessage(ErrNotPending, req.Status.String())
	}
	return req, nil
}

// CompleteRedeem marks a pending request paid. txRef identifies the off-chain payout and can be used once.
func (v *Vault) CompleteRedeem(id gf.Bytes32, txRef string, now uint64) (*request.Request, error) {
	if txRef == "" {
		return nil, ErrEmptyTxRef
	}
	req, err := v.pending(id)
	if err != nil {
		return nil, err
	}
	if err := v.requireKYC(req.Account); err != nil {
		return nil, err
	}
	digest := request.RefDigest(txRef)
	if err := v.requests.UseRef(digest); err != nil {
		return nil, err
	}
	req.Status = request.StatusCompleted
	req.CompletedAt = now
	req.PayoutRef = digest
	if err := v.requests.Update(req); err != nil {
		return nil, err
	}
	v.emit("RedeemCompleted", req.Account, req.ID, req.TokenNetOut, map[string]string{
		"txRef": txRef,
	})
	logger.Info("redeem completed", "id", req.ID, "txRef", txRef)
	return req, nil
}

// CancelRedeem restores the burnt ART principal to the requester.
func (v *Vault) CancelRedeem(id gf.Bytes32) (*request.Request, error) {
	req, err := v.pending(id)
	if err != nil {
		return nil, err
	}
	if err := token.New(v.art, v.state).Mint(v.addr, req.Account, req.ArtAmount); err != nil {
		return nil, errors.WithMessage(err, "restore art")
	}
	req.Status = request.StatusCancelled
	if err := v.requests.Update(req); err != nil {
		return nil, err
	}
	v.emit("RedeemCancelled", req.Account, req.ID, req.ArtAmount, nil)
	logger.Info("redeem cancelled", "id", req.ID)
	return req, nil
}

//
// Admin setters, callers check the role.
//

// AddStablecoin registers a token with at least 6 decimals.
func (v *Vault) AddStablecoin(addr gf.Address) error {
	meta, err := token.New(addr, v.state).Meta()
	if err != nil {
		return err
	}
	if meta.Symbol == "" {
		return ErrUnknownToken
	}
	if meta.Decimals < gf.USDDecimals {
		return ErrUnsupportedDecimals
	}
	ok, err := v.IsStablecoin(addr)
	if err != nil || ok {
		return err
	}
	idx, err := v.stables.Push(addr)
	if err != nil {
		return err
	}
	return v.stableIndexes.Set(addr, idx+1)
}

func (v *Vault) RemoveStablecoin(addr gf.Address) error {
	idx, err := v.stableIndexes.Get(addr)
	if err != nil {
		return err
	}
	if idx == 0 {
		return ErrUnsupportedStable
	}
	n, err := v.stables.Len()
	if err != nil {
		return err
	}
	last, err := v.stables.Get(n - 1)
	if err != nil {
		return err
	}
	if err := v.stables.SwapRemove(idx - 1); err != nil {
		return err
	}
	v.stableIndexes.Delete(addr)
	if last != addr {
		return v.stableIndexes.Set(last, idx)
	}
	return nil
}

func (v *Vault) SetMintFee(bps uint64) error {
	if bps > gf.MaxMintFeeBps {
		return ErrFeeTooHigh
	}
	v.params.Set(gf.KeyMintFeeBps, new(big.Int).SetUint64(bps))
	return nil
}

func (v *Vault) SetRedeemFee(bps uint64) error {
	if bps > gf.MaxRedeemFeeBps {
		return ErrFeeTooHigh
	}
	v.params.Set(gf.KeyRedeemFeeBps, new(big.Int).SetUint64(bps))
	return nil
}

func (v *Vault) SetMinimumAmount(usd *big.Int) error {
	if usd.Sign() <= 0 {
		return ErrZeroAmount
	}
	v.params.Set(gf.KeyMinimumAmount, usd)
	return nil
}

func (v *Vault) setAddress(key gf.Bytes32, addr gf.Address) error {
	if addr.IsZero() {
		return ErrZeroAddress
	}
	v.params.SetAddress(key, addr)
	return nil
}

func (v *Vault) SetRecipient(addr gf.Address) error { return v.setAddress(gf.KeyVaultReceiver, addr) }
func (v *Vault) SetOracle(addr gf.Address) error    { return v.setAddress(gf.KeyVaultOracle, addr) }
func (v *Vault) SetRegistry(addr gf.Address) error  { return v.setAddress(gf.KeyKYCRegistry, addr) }

func (v *Vault) SetKYCEnforced(enforced bool) {
	v.params.Set(gf.KeyKYCEnforced, gf.Bool2Big(enforced))
}
