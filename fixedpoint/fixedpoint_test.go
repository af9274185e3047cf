// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fixedpoint

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
)

func maxUint256() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		a, b, d int64
		want    int64
	}{
		{100, 3, 7, 42},
		{0, 5, 3, 0},
		{99_500_000, 1_000_000, 1_000_000, 99_500_000},
		{1, 1, 2, 0},
	}
	for _, tt := range tests {
		got, err := MulDiv(big.NewInt(tt.a), big.NewInt(tt.b), big.NewInt(tt.d))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(tt.want).String(), got.String())
	}

	_, err := MulDiv(big.NewInt(1), big.NewInt(1), big.NewInt(0))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MulDiv(maxUint256(), big.NewInt(2), big.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)

	// intermediate product above 256 bits is fine when the quotient fits
	got, err := MulDiv(maxUint256(), big.NewInt(2), big.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, maxUint256().String(), got.String())

	_, err = MulDiv(big.NewInt(-1), big.NewInt(1), big.NewInt(1))
	assert.ErrorIs(t, err, ErrNegative)

	for _, err := range []error{ErrOverflow, ErrDivisionByZero, ErrNegative} {
		assert.Equal(t, reverts.KindValidation, reverts.KindOf(err), err.Error())
	}
}

func TestBps(t *testing.T) {
	fee, err := Bps(big.NewInt(100_000_000), 50)
	require.NoError(t, err)
	assert.Equal(t, "500000", fee.String())

	penalty, err := Bps(big.NewInt(1000), 500)
	require.NoError(t, err)
	assert.Equal(t, "50", penalty.String())

	zero, err := Bps(big.NewInt(199), 50)
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Sign())
}

func TestScale(t *testing.T) {
	usd := big.NewInt(100_000_000)

	v, err := ScaleFromUSD6(usd, 18)
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", v.String())

	v, err = ScaleFromUSD6(usd, 6)
	require.NoError(t, err)
	assert.Equal(t, usd.String(), v.String())

	v, err = ScaleFromUSD6(big.NewInt(1_234_567), 4)
	require.NoError(t, err)
	assert.Equal(t, "12345", v.String())

	v, err = ScaleToUSD6(big.NewInt(1_999_999_999_999), 18)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = ScaleFromUSD6(maxUint256(), 18)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestScaleRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for i := 0; i < 1000; i++ {
		var (
			x   uint64
			dec uint8
		)
		f.Fuzz(&x)
		f.Fuzz(&dec)
		dec = 6 + dec%25

		amount := new(big.Int).SetUint64(x)
		scaled, err := ScaleFromUSD6(amount, dec)
		require.NoError(t, err)
		back, err := ScaleToUSD6(scaled, dec)
		require.NoError(t, err)
		assert.Equal(t, amount.String(), back.String(), "decimals %d", dec)
	}
}
