// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

// MintPreview is the outcome of paying usd for ART at nav.
type MintPreview struct {
	NAV   *big.Int
	USD   *big.Int
	Gross *big.Int
	Fee   *big.Int
	Net   *big.Int
}

// RedeemPreview is the outcome of redeeming ART at nav.
type RedeemPreview struct {
	NAV         *big.Int
	ArtAmount   *big.Int
	UsdGross    *big.Int
	UsdFee      *big.Int
	UsdNet      *big.Int
	TokenNetOut *big.Int // UsdNet in stablecoin units, zero when no stablecoin is given
}

var oneUSD = new(big.Int).SetUint64(gf.OneUSD)

// PreviewMint computes gross = usd*1e6/nav, fee = gross*feeBps/10000, net = gross-fee.
func PreviewMint(usd, nav *big.Int, feeBps uint64) (*MintPreview, error) {
	if nav == nil || nav.Sign() == 0 {
		return nil, ErrInvalidNAV
	}
	gross, err := fixedpoint.MulDiv(usd, oneUSD, nav)
	if err != nil {
		return nil, err
	}
	fee, err := fixedpoint.Bps(gross, feeBps)
	if err != nil {
		return nil, err
	}
	return &MintPreview{
		NAV:   new(big.Int).Set(nav),
		USD:   new(big.Int).Set(usd),
		Gross: gross,
		Fee:   fee,
		Net:   new(big.Int).Sub(gross, fee),
	}, nil
}

// PreviewRedeem computes usdGross = art*nav/1e6, fee = usdGross*feeBps/10000, usdNet = usdGross-fee.
func PreviewRedeem(art, nav *big.Int, feeBps uint64) (*RedeemPreview, error) {
	if nav == nil || nav.Sign() == 0 {
		return nil, ErrInvalidNAV
	}
	gross, err := fixedpoint.MulDiv(art, nav, oneUSD)
	if err != nil {
		return nil, err
	}
	fee, err := fixedpoint.Bps(gross, feeBps)
	if err != nil {
		return nil, err
	}
	return &RedeemPreview{
		NAV:         new(big.Int).Set(nav),
		ArtAmount:   new(big.Int).Set(art),
		UsdGross:    gross,
		UsdFee:      fee,
		UsdNet:      new(big.Int).Sub(gross, fee),
		TokenNetOut: new(big.Int),
	}, nil
}
