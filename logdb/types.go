// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Event is a tx.Event as stored in the log.
type Event struct {
	BlockNumber uint64
	Index       uint32 // position within the block
	BlockTime   uint64
	TxID        gf.Bytes32
	TxOrigin    gf.Address
	ClauseIndex uint32
	Contract    gf.Address
	Name        string
	Account     gf.Address
	Ref         gf.Bytes32
	Amount      *big.Int
	Data        map[string]string
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. A To below From leaves the range open ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Nil or empty fields match anything.
type EventFilter struct {
	Contract *gf.Address
	Name     string
	Account  *gf.Address
	Ref      *gf.Bytes32
	TxID     *gf.Bytes32
	Range    *Range
	Options  *Options
	Order    Order // default asc
}
