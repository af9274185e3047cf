// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault/request"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

type Config struct {
	MintFeeBps    uint64        `json:"mintFeeBps"`
	RedeemFeeBps  uint64        `json:"redeemFeeBps"`
	MinimumAmount *utils.Amount `json:"minimumAmount"`
	KYCEnforced   bool          `json:"kycEnforced"`
	Recipient     gf.Address    `json:"recipient"`
	Oracle        gf.Address    `json:"oracle"`
	Registry      gf.Address    `json:"registry"`
	Stablecoins   []gf.Address  `json:"stablecoins"`
	NAV           *utils.Amount `json:"nav"`
}

func convertConfig(cfg *vault.Config, nav *utils.Amount) *Config {
	return &Config{
		MintFeeBps:    cfg.MintFeeBps,
		RedeemFeeBps:  cfg.RedeemFeeBps,
		MinimumAmount: usd(cfg.MinimumAmount),
		KYCEnforced:   cfg.KYCEnforced,
		Recipient:     cfg.Recipient,
		Oracle:        cfg.Oracle,
		Registry:      cfg.Registry,
		Stablecoins:   cfg.Stablecoins,
		NAV:           nav,
	}
}

type MintPreview struct {
	NAV   *utils.Amount `json:"nav"`
	USD   *utils.Amount `json:"usd"`
	Gross *utils.Amount `json:"gross"`
	Fee   *utils.Amount `json:"fee"`
	Net   *utils.Amount `json:"net"`
}

func convertMintPreview(p *vault.MintPreview) *MintPreview {
	return &MintPreview{
		NAV:   usd(p.NAV),
		USD:   usd(p.USD),
		Gross: usd(p.Gross),
		Fee:   usd(p.Fee),
		Net:   usd(p.Net),
	}
}

type RedeemPreview struct {
	NAV         *utils.Amount `json:"nav"`
	ArtAmount   *utils.Amount `json:"artAmount"`
	UsdGross    *utils.Amount `json:"usdGross"`
	UsdFee      *utils.Amount `json:"usdFee"`
	UsdNet      *utils.Amount `json:"usdNet"`
	TokenNetOut *utils.Amount `json:"tokenNetOut,omitempty"`
}

func convertRedeemPreview(p *vault.RedeemPreview, stableDecimals uint8) *RedeemPreview {
	rp := &RedeemPreview{
		NAV:       usd(p.NAV),
		ArtAmount: usd(p.ArtAmount),
		UsdGross:  usd(p.UsdGross),
		UsdFee:    usd(p.UsdFee),
		UsdNet:    usd(p.UsdNet),
	}
	if p.TokenNetOut != nil {
		rp.TokenNetOut = utils.NewAmount(p.TokenNetOut, stableDecimals)
	}
	return rp
}

type Request struct {
	ID          gf.Bytes32    `json:"id"`
	Account     gf.Address    `json:"account"`
	StableToken gf.Address    `json:"stableToken"`
	ArtAmount   *utils.Amount `json:"artAmount"`
	NAV         *utils.Amount `json:"nav"`
	UsdGross    *utils.Amount `json:"usdGross"`
	UsdFee      *utils.Amount `json:"usdFee"`
	UsdNet      *utils.Amount `json:"usdNet"`
	TokenNetOut *utils.Amount `json:"tokenNetOut"`
	CreatedAt   uint64        `json:"createdAt"`
	CompletedAt uint64        `json:"completedAt"`
	Status      string        `json:"status"`
	PayoutRef   *gf.Bytes32   `json:"payoutRef"`
}

func convertRequest(r *request.Request, stableDecimals uint8) *Request {
	req := &Request{
		ID:          r.ID,
		Account:     r.Account,
		StableToken: r.StableToken,
		ArtAmount:   usd(r.ArtAmount),
		NAV:         usd(r.NAV),
		UsdGross:    usd(r.UsdGross),
		UsdFee:      usd(r.UsdFee),
		UsdNet:      usd(r.UsdNet),
		TokenNetOut: utils.NewAmount(r.TokenNetOut, stableDecimals),
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		Status:      r.Status.String(),
	}
	if !r.PayoutRef.IsZero() {
		ref := r.PayoutRef
		req.PayoutRef = &ref
	}
	return req
}
