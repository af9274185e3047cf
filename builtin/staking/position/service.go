// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package position is the per-user ledger of stakes: a flex bucket plus bounded
// collections of 30 and 90 day positions. Removal is swap-and-pop, so position
// indexes are not stable across mutating calls.
package position

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

var (
	ErrInvalidPosition     = reverts.New(reverts.KindValidation, "invalid position")
	ErrInsufficientBalance = reverts.New(reverts.KindState, "insufficient staked balance")
	ErrPositionCap         = reverts.New(reverts.KindCapacity, "too many positions")

	slotAccounts  = gf.BytesToBytes32([]byte("accounts"))
	slotPositions = gf.BytesToBytes32([]byte("positions"))
)

// Account is the reward state and flex bucket of a user in a pool.
type Account struct {
	FlexAmount          *big.Int
	RewardPerWeightPaid *big.Int
	PendingRewards      *big.Int
}

func (a *Account) normalize() {
	if a.FlexAmount == nil {
		a.FlexAmount = new(big.Int)
	}
	if a.RewardPerWeightPaid == nil {
		a.RewardPerWeightPaid = new(big.Int)
	}
	if a.PendingRewards == nil {
		a.PendingRewards = new(big.Int)
	}
}

// Touched records the change of one position (or of the flex bucket) by a withdrawal.
type Touched struct {
	Term   stakes.Term
	Index  uint64
	Amount *big.Int // withdrawn
	Before *big.Int
	After  *big.Int
}

func (t *Touched) Removed() bool {
	return t.Term.Locked() && t.After.Sign() == 0
}

type Service struct {
	context  *solidity.Context
	accounts *solidity.Mapping[gf.Bytes32, *Account]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		context:  sctx,
		accounts: solidity.NewMapping[gf.Bytes32, *Account](sctx, slotAccounts),
	}
}

func accountKey(id pool.ID, user gf.Address) gf.Bytes32 {
	return gf.Blake2b(id.Bytes(), user.Bytes())
}

func (s *Service) positions(id pool.ID, user gf.Address, term stakes.Term) *solidity.Array[stakes.Position] {
	return solidity.NewArray[stakes.Position](
		s.context,
		gf.Blake2b(slotPositions.Bytes(), id.Bytes(), user.Bytes(), []byte{byte(term)}),
	)
}

func (s *Service) Account(id pool.ID, user gf.Address) (*Account, error) {
	acc, err := s.accounts.Get(accountKey(id, user))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	acc.normalize()
	return acc, nil
}

func (s *Service) SetAccount(id pool.ID, user gf.Address, acc *Account) error {
	return s.accounts.Set(accountKey(id, user), acc)
}

// Count returns the number of positions of a locked term.
func (s *Service) Count(id pool.ID, user gf.Address, term stakes.Term) (uint64, error) {
	if !term.Locked() {
		return 0, nil
	}
	return s.positions(id, user, term).Len()
}

func (s *Service) Positions(id pool.ID, user gf.Address, term stakes.Term, offset, limit uint64) ([]stakes.Position, error) {
	if !term.Locked() {
		return nil, nil
	}
	return s.positions(id, user, term).Slice(offset, limit)
}

func (s *Service) Position(id pool.ID, user gf.Address, term stakes.Term, index uint64) (*stakes.Position, error) {
	if !term.Locked() {
		return nil, ErrInvalidPosition
	}
	p, err := s.positions(id, user, term).Get(index)
	if err != nil {
		if errors.Is(err, solidity.ErrIndexOutOfRange) {
			return nil, ErrInvalidPosition
		}
		return nil, err
	}
	return &p, nil
}

// Add puts amount in the flex bucket, or appends a position maturing at now+duration.
// Locked terms hold at most maxPositions entries.
func (s *Service) Add(id pool.ID, user gf.Address, term stakes.Term, amount *big.Int, now, maxPositions uint64) error {
	if !term.Locked() {
		acc, err := s.Account(id, user)
		if err != nil {
			return err
		}
		acc.FlexAmount.Add(acc.FlexAmount, amount)
		return s.SetAccount(id, user, acc)
	}

	arr := s.positions(id, user, term)
	n, err := arr.Len()
	if err != nil {
		return err
	}
	if n >= maxPositions {
		return errors.WithMessagef(ErrPositionCap, "%s positions", term)
	}
	_, err = arr.Push(stakes.Position{Amount: new(big.Int).Set(amount), UnlockAt: now + term.Duration()})
	return err
}

// EffectiveWeight sums the boosted weight of the flex bucket and of every position, matured or not.
func (s *Service) EffectiveWeight(id pool.ID, user gf.Address, boosts stakes.Boosts) (*big.Int, error) {
	acc, err := s.Account(id, user)
	if err != nil {
		return nil, err
	}
	weight, err := stakes.Weight(acc.FlexAmount, boosts.Of(stakes.TermFlex))
	if err != nil {
		return nil, err
	}
	for _, term := range []stakes.Term{stakes.Term30, stakes.Term90} {
		all, err := s.Positions(id, user, term, 0, ^uint64(0))
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			w, err := stakes.Weight(p.Amount, boosts.Of(term))
			if err != nil {
				return nil, err
			}
			weight.Add(weight, w)
		}
	}
	return weight, nil
}

// Withdrawable is the flex bucket plus every matured position.
func (s *Service) Withdrawable(id pool.ID, user gf.Address, now uint64) (*big.Int, error) {
	acc, err := s.Account(id, user)
	if err != nil {
		return nil, err
	}
	total := new(big.Int).Set(acc.FlexAmount)
	for _, term := range []stakes.Term{stakes.Term30, stakes.Term90} {
		all, err := s.Positions(id, user, term, 0, ^uint64(0))
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			if p.Matured(now) {
				total.Add(total, p.Amount)
			}
		}
	}
	return total, nil
}

// Deduct withdraws amount from the flex bucket first, then from matured 30 day
// positions, then from matured 90 day positions, in ascending index order.
// It returns one record per bucket or position touched.
func (s *Service) Deduct(id pool.ID, user gf.Address, amount *big.Int, now uint64) ([]*Touched, error) {
	available, err := s.Withdrawable(id, user, now)
	if err != nil {
		return nil, err
	}
	if available.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	remaining := new(big.Int).Set(amount)
	var touched []*Touched

	acc, err := s.Account(id, user)
	if err != nil {
		return nil, err
	}
	if acc.FlexAmount.Sign() > 0 {
		take := minBig(acc.FlexAmount, remaining)
		before := new(big.Int).Set(acc.FlexAmount)
		acc.FlexAmount.Sub(acc.FlexAmount, take)
		if err := s.SetAccount(id, user, acc); err != nil {
			return nil, err
		}
		remaining.Sub(remaining, take)
		touched = append(touched, &Touched{
			Term:   stakes.TermFlex,
			Amount: take,
			Before: before,
			After:  new(big.Int).Set(acc.FlexAmount),
		})
	}

	for _, term := range []stakes.Term{stakes.Term30, stakes.Term90} {
		arr := s.positions(id, user, term)
		for i := uint64(0); remaining.Sign() > 0; {
			n, err := arr.Len()
			if err != nil {
				return nil, err
			}
			if i >= n {
				break
			}
			p, err := arr.Get(i)
			if err != nil {
				return nil, err
			}
			if !p.Matured(now) || p.Amount.Sign() == 0 {
				i++
				continue
			}
			take := minBig(p.Amount, remaining)
			t, err := s.reduce(arr, term, i, &p, take)
			if err != nil {
				return nil, err
			}
			remaining.Sub(remaining, take)
			touched = append(touched, t)
			// a removed slot now holds the former last position
			if !t.Removed() {
				i++
			}
		}
	}

	if remaining.Sign() > 0 {
		return nil, ErrInsufficientBalance
	}
	return touched, nil
}

// Reduce withdraws amount from exactly one position, removing it when it reaches zero.
func (s *Service) Reduce(id pool.ID, user gf.Address, term stakes.Term, index uint64, amount *big.Int) (*Touched, error) {
	p, err := s.Position(id, user, term, index)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(p.Amount) > 0 {
		return nil, ErrInsufficientBalance
	}
	return s.reduce(s.positions(id, user, term), term, index, p, amount)
}

func (s *Service) reduce(arr *solidity.Array[stakes.Position], term stakes.Term, index uint64, p *stakes.Position, amount *big.Int) (*Touched, error) {
	t := &Touched{
		Term:   term,
		Index:  index,
		Amount: new(big.Int).Set(amount),
		Before: new(big.Int).Set(p.Amount),
		After:  new(big.Int).Sub(p.Amount, amount),
	}
	if t.After.Sign() == 0 {
		if err := arr.SwapRemove(index); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err := arr.Set(index, stakes.Position{Amount: t.After, UnlockAt: p.UnlockAt}); err != nil {
		return nil, err
	}
	return t, nil
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
