// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies why a call was rejected.
type Kind uint8

const (
	KindValidation Kind = iota + 1 // bad input: zero amount, below minimum, unknown pool
	KindState                      // illegal state transition or insufficient balance
	KindAuth                       // missing role or capability
	KindDependency                 // oracle or registry did not deliver
	KindCapacity                   // bounded collection is full
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindState:
		return "state"
	case KindAuth:
		return "auth"
	case KindDependency:
		return "dependency"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// ErrRevert is an expected rejection of a call. The whole call is rolled back and nothing is retried.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or zero if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
