// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Array is a dynamic storage array, similar to `T[]` in Solidity.
// The length lives at pos and element i at blake2b(pos, i).
// Removal swaps the last element into the hole, so indices are not stable across removals.
type Array[V any] struct {
	context *Context
	pos     gf.Bytes32
	length  *Uint256
}

func NewArray[V any](context *Context, pos gf.Bytes32) *Array[V] {
	return &Array[V]{context: context, pos: pos, length: NewUint256(context, pos)}
}

func (a *Array[V]) slot(index uint64) gf.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	return gf.Blake2b(a.pos.Bytes(), b[:])
}

func (a *Array[V]) Len() (uint64, error) {
	l, err := a.length.Get()
	if err != nil {
		return 0, err
	}
	return l.Uint64(), nil
}

func (a *Array[V]) Get(index uint64) (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if index >= n {
		return value, ErrIndexOutOfRange
	}
	return a.get(index)
}

func (a *Array[V]) get(index uint64) (value V, err error) {
	err = a.context.state.DecodeStorage(a.context.address, a.slot(index), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (a *Array[V]) set(index uint64, value V) error {
	return a.context.state.EncodeStorage(a.context.address, a.slot(index), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func (a *Array[V]) Set(index uint64, value V) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return ErrIndexOutOfRange
	}
	return a.set(index, value)
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.set(n, value); err != nil {
		return 0, err
	}
	a.length.Set(new(big.Int).SetUint64(n + 1))
	return n, nil
}

// SwapRemove deletes the element at index by moving the last element into its place.
func (a *Array[V]) SwapRemove(index uint64) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return ErrIndexOutOfRange
	}
	last := n - 1
	if index != last {
		v, err := a.get(last)
		if err != nil {
			return err
		}
		if err := a.set(index, v); err != nil {
			return err
		}
	}
	a.context.state.SetRawStorage(a.context.address, a.slot(last), nil)
	a.length.Set(new(big.Int).SetUint64(last))
	return nil
}

// Slice returns up to limit elements starting at offset.
func (a *Array[V]) Slice(offset, limit uint64) ([]V, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	if offset >= n {
		return nil, nil
	}
	end := n
	if limit < n-offset {
		end = offset + limit
	}
	values := make([]V, 0, end-offset)
	for i := offset; i < end; i++ {
		v, err := a.get(i)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
