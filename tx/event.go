// Copyright (c) 2018 The GoldFinger developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Event is emitted by a builtin contract while executing a clause.
type Event struct {
	// address of the contract that emitted the event
	Address gf.Address
	Name    string
	// the account the event is about
	Account gf.Address
	// reference id, e.g. a redeem request id
	Ref    gf.Bytes32
	Amount *big.Int
	// remaining fields, rendered as strings
	Data map[string]string
}

// Events slice of event logs.
type Events []*Event
