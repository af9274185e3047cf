// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the unsigned 256-bit fixed-point arithmetic used by the ledgers.
// All divisions round toward zero and every intermediate result is bounded to 256 bits.
package fixedpoint

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Arithmetic failures are caused by out of range inputs and revert as validation errors.
var (
	ErrOverflow       = reverts.New(reverts.KindValidation, "uint256 overflow")
	ErrDivisionByZero = reverts.New(reverts.KindValidation, "division by zero")
	ErrNegative       = reverts.New(reverts.KindValidation, "negative amount")
)

func toUint256(x *big.Int) (*uint256.Int, error) {
	if x.Sign() < 0 {
		return nil, ErrNegative
	}
	v, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

// MulDiv returns floor(a*b/d). The product is computed at 512 bits, only the quotient has to fit.
func MulDiv(a, b, d *big.Int) (*big.Int, error) {
	x, err := toUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := toUint256(b)
	if err != nil {
		return nil, err
	}
	z, err := toUint256(d)
	if err != nil {
		return nil, err
	}
	if z.IsZero() {
		return nil, ErrDivisionByZero
	}
	res, overflow := new(uint256.Int).MulDivOverflow(x, y, z)
	if overflow {
		return nil, ErrOverflow
	}
	return res.ToBig(), nil
}

// Mul returns a*b, failing when the product exceeds 256 bits.
func Mul(a, b *big.Int) (*big.Int, error) {
	x, err := toUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := toUint256(b)
	if err != nil {
		return nil, err
	}
	res, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return res.ToBig(), nil
}

// Bps returns floor(amount*bps/10000).
func Bps(amount *big.Int, bps uint64) (*big.Int, error) {
	return MulDiv(amount, new(big.Int).SetUint64(bps), new(big.Int).SetUint64(gf.BasisPoints))
}

// Pow10 returns 10^n.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
