// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakes holds the value types shared by the staking services.
package stakes

import (
	"math/big"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

// Term is the lock term of a stake.
type Term uint8

const (
	TermFlex Term = iota
	Term30
	Term90
)

const day = 24 * 3600

var (
	ErrUnknownTerm = reverts.New(reverts.KindValidation, "unknown term")

	Terms = []Term{TermFlex, Term30, Term90}
)

func (t Term) Valid() bool {
	return t <= Term90
}

// Locked is true for terms that create positions with a maturity.
func (t Term) Locked() bool {
	return t == Term30 || t == Term90
}

// Duration is the lock length in seconds.
func (t Term) Duration() uint64 {
	switch t {
	case Term30:
		return 30 * day
	case Term90:
		return 90 * day
	default:
		return 0
	}
}

func (t Term) String() string {
	switch t {
	case TermFlex:
		return "flex"
	case Term30:
		return "30d"
	case Term90:
		return "90d"
	default:
		return "unknown"
	}
}

// ParseTerm accepts "flex", "30d", "90d" as well as the numeric ids.
func ParseTerm(s string) (Term, error) {
	switch s {
	case "flex", "0":
		return TermFlex, nil
	case "30d", "30", "1":
		return Term30, nil
	case "90d", "90", "2":
		return Term90, nil
	}
	return 0, ErrUnknownTerm
}

func (t Term) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Term) UnmarshalText(text []byte) error {
	v, err := ParseTerm(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EnabledKey is the param switching the term on or off.
func (t Term) EnabledKey() gf.Bytes32 {
	switch t {
	case Term30:
		return gf.KeyTerm30Enabled
	case Term90:
		return gf.KeyTerm90Enabled
	default:
		return gf.KeyTermFlexEnabled
	}
}

// BoostKey is the param holding the boost multiplier of the term.
func (t Term) BoostKey() gf.Bytes32 {
	switch t {
	case Term30:
		return gf.KeyBoost30
	case Term90:
		return gf.KeyBoost90
	default:
		return gf.KeyBoostFlex
	}
}

// Position is a single locked stake.
type Position struct {
	Amount   *big.Int
	UnlockAt uint64
}

func (p *Position) Matured(now uint64) bool {
	return p.UnlockAt <= now
}

// Boosts maps every term to its multiplier, scaled by gf.BoostPrecision.
type Boosts [3]*big.Int

func (b Boosts) Of(t Term) *big.Int {
	return b[t]
}

// Weight returns floor(amount*boost/BoostPrecision).
func Weight(amount, boost *big.Int) (*big.Int, error) {
	return fixedpoint.MulDiv(amount, boost, new(big.Int).SetUint64(gf.BoostPrecision))
}

// WeightDelta returns Weight(before)-Weight(after). Buckets move by this
// delta so that each bucket stays the exact sum of its members' weights.
func WeightDelta(before, after, boost *big.Int) (*big.Int, error) {
	wb, err := Weight(before, boost)
	if err != nil {
		return nil, err
	}
	wa, err := Weight(after, boost)
	if err != nil {
		return nil, err
	}
	return wb.Sub(wb, wa), nil
}
