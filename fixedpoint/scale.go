// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// ScaleFromUSD6 converts an amount in the 6-decimal USD unit into token units of the given decimals.
// Tokens with fewer decimals are floored; registration rejects them, the branch only guards the math.
func ScaleFromUSD6(amount *big.Int, decimals uint8) (*big.Int, error) {
	if decimals >= gf.USDDecimals {
		return Mul(amount, Pow10(decimals-gf.USDDecimals))
	}
	if _, err := toUint256(amount); err != nil {
		return nil, err
	}
	return new(big.Int).Quo(amount, Pow10(gf.USDDecimals-decimals)), nil
}

// ScaleToUSD6 converts token units of the given decimals into the 6-decimal USD unit, flooring any remainder.
func ScaleToUSD6(amount *big.Int, decimals uint8) (*big.Int, error) {
	if _, err := toUint256(amount); err != nil {
		return nil, err
	}
	if decimals >= gf.USDDecimals {
		return new(big.Int).Quo(amount, Pow10(decimals-gf.USDDecimals)), nil
	}
	return Mul(amount, Pow10(gf.USDDecimals-decimals))
}
