// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
)

// Params binder of `Params` contract.
type Params struct {
	context *solidity.Context
}

func New(addr gf.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key gf.Bytes32) (*big.Int, error) {
	v, err := solidity.NewUint256(p.context, key).Get()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get param %s", key.AbbrevString())
	}
	return v, nil
}

// Set native way to set param.
func (p *Params) Set(key gf.Bytes32, value *big.Int) {
	solidity.NewUint256(p.context, key).Set(value)
}

// GetUint64 returns the param truncated to uint64.
func (p *Params) GetUint64(key gf.Bytes32) (uint64, error) {
	v, err := p.Get(key)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// GetBool returns true if the param is non-zero.
func (p *Params) GetBool(key gf.Bytes32) (bool, error) {
	v, err := p.Get(key)
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

// GetAddress interprets the param as an address.
func (p *Params) GetAddress(key gf.Bytes32) (gf.Address, error) {
	v, err := p.Get(key)
	if err != nil {
		return gf.Address{}, err
	}
	return gf.BytesToAddress(v.Bytes()), nil
}

// SetAddress stores an address param.
func (p *Params) SetAddress(key gf.Bytes32, addr gf.Address) {
	p.Set(key, new(big.Int).SetBytes(addr.Bytes()))
}
