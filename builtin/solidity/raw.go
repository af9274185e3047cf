// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Raw stores a single rlp encoded value in one slot, for structs that are always read as a whole.
type Raw[V any] struct {
	context *Context
	pos     gf.Bytes32
}

func NewRaw[V any](context *Context, pos gf.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get decodes the stored value into a fresh V. The zero value is returned for an empty slot.
func (r *Raw[V]) Get() (*V, error) {
	var value V
	err := r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *Raw[V]) Set(value *V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
