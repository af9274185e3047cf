// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gf

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

type hasher struct {
	hash.Hash
	b32 Bytes32
}

var (
	blake2bPool = sync.Pool{
		New: func() any {
			h, _ := blake2b.New256(nil)
			return &hasher{Hash: h}
		},
	}
	keccakPool = sync.Pool{
		New: func() any {
			return &hasher{Hash: sha3.NewLegacyKeccak256()}
		},
	}
)

func sum(pool *sync.Pool, data [][]byte) (h Bytes32) {
	w := pool.Get().(*hasher)
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(w.b32[:0])
	h = w.b32
	w.Reset()
	pool.Put(w)
	return
}

// Blake2b computes blake2b-256 checksum for given data.
// Storage slots of builtin contracts are derived with it.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return sum(&blake2bPool, data)
}

// Keccak256 computes legacy keccak-256 checksum for given data.
func Keccak256(data ...[]byte) Bytes32 {
	return sum(&keccakPool, data)
}
