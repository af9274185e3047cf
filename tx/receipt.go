// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/json"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID        gf.Bytes32
	Origin      gf.Address
	BlockNumber uint64
	BlockTime   uint64
	Reverted    bool
	// reason of revert, also tells which clause failed
	RevertReason string
	// the clause that caused the revert
	BadClauseIndex int
	Outputs        []*Output
}

// Output output of clause execution.
type Output struct {
	Events Events
	// JSON encoded return value of the method
	Result json.RawMessage
}

// Events returns all events of the receipt in emission order.
func (r *Receipt) Events() Events {
	var evs Events
	for _, o := range r.Outputs {
		evs = append(evs, o.Events...)
	}
	return evs
}
