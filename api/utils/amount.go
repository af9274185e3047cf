// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Amount is an integer token amount with its value in whole units.
type Amount struct {
	Raw   string `json:"raw"`
	Value string `json:"value"`
}

// NewAmount renders v as held by a token with the given decimals. A nil v renders zero.
func NewAmount(v *big.Int, decimals uint8) *Amount {
	if v == nil {
		v = new(big.Int)
	}
	return &Amount{
		Raw:   v.String(),
		Value: decimal.NewFromBigInt(v, -int32(decimals)).String(),
	}
}
