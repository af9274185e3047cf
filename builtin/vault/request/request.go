// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"encoding/binary"
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Status of a redeem request. Pending moves to exactly one of the terminal states.
type Status uint8

const (
	StatusPending Status = iota + 1
	StatusCompleted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Request is the settlement snapshot of a redeem, frozen at submission.
type Request struct {
	ID          gf.Bytes32
	Account     gf.Address
	StableToken gf.Address
	ArtAmount   *big.Int
	NAV         *big.Int
	UsdGross    *big.Int
	UsdFee      *big.Int
	UsdNet      *big.Int
	TokenNetOut *big.Int
	CreatedAt   uint64
	CompletedAt uint64
	Status      Status
	PayoutRef   gf.Bytes32 // digest of the off-chain payout reference
}

func (r *Request) exists() bool {
	return r.Status != 0
}

func (r *Request) Pending() bool {
	return r.Status == StatusPending
}

// NewID derives the request id from the redeem content. A collision is fatal to the submission.
func NewID(account gf.Address, amount *big.Int, blockNumber uint64, origin gf.Address) gf.Bytes32 {
	var num [8]byte
	binary.BigEndian.PutUint64(num[:], blockNumber)
	return gf.Keccak256(
		account.Bytes(),
		gf.BytesToBytes32(amount.Bytes()).Bytes(),
		num[:],
		origin.Bytes(),
	)
}

// RefDigest is the dedup key of an off-chain payout reference.
func RefDigest(txRef string) gf.Bytes32 {
	return gf.Keccak256([]byte(txRef))
}
