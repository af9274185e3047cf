// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "github.com/pkg/errors"

type sequence int64

const (
	indexBits    = 20
	indexMask    = 1<<indexBits - 1
	blockNumBits = 63 - indexBits
	blockNumMask = 1<<blockNumBits - 1
)

// MaxBlockNumber is the largest block number the log can index.
const MaxBlockNumber uint64 = blockNumMask

func newSequence(blockNum uint64, index uint32) (sequence, error) {
	if blockNum > blockNumMask {
		return 0, errors.New("block number out of range: uint43")
	}
	if index > indexMask {
		return 0, errors.New("event index out of range: uint20")
	}
	return sequence(blockNum<<indexBits | uint64(index)), nil
}

func (s sequence) BlockNumber() uint64 {
	return uint64(s) >> indexBits
}

func (s sequence) Index() uint32 {
	return uint32(s & indexMask)
}
