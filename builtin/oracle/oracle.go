// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package oracle stores the USD price (6 decimals) of assets.
package oracle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
)

var (
	ErrPriceNotSet  = reverts.New(reverts.KindDependency, "price not set")
	ErrInvalidPrice = reverts.New(reverts.KindValidation, "invalid price")

	slotPrices = gf.BytesToBytes32([]byte("prices"))
)

type entry struct {
	Price     *big.Int
	UpdatedAt uint64
}

type Oracle struct {
	prices *solidity.Mapping[gf.Address, *entry]
}

func New(addr gf.Address, state *state.State) *Oracle {
	return &Oracle{
		prices: solidity.NewMapping[gf.Address, *entry](solidity.NewContext(addr, state), slotPrices),
	}
}

// SetPrice records the price of asset. Zero is rejected, use an unset asset instead.
func (o *Oracle) SetPrice(asset gf.Address, price *big.Int, now uint64) error {
	if price == nil || price.Sign() <= 0 {
		return ErrInvalidPrice
	}
	return o.prices.Set(asset, &entry{Price: price, UpdatedAt: now})
}

// GetPrice returns the last price of asset, or ErrPriceNotSet.
func (o *Oracle) GetPrice(asset gf.Address) (*big.Int, error) {
	e, err := o.prices.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get price")
	}
	if e.Price == nil || e.Price.Sign() == 0 {
		return nil, ErrPriceNotSet
	}
	return e.Price, nil
}

func (o *Oracle) UpdatedAt(asset gf.Address) (uint64, error) {
	e, err := o.prices.Get(asset)
	if err != nil {
		return 0, err
	}
	return e.UpdatedAt, nil
}
