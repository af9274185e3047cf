// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package distributor allocates GF from category-capped linear vesting schedules
// and keeps a pool of fixed-duration time-locks.
package distributor

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/builtin/token"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	logger = log.New("pkg", "distributor")

	ErrZeroAmount        = reverts.New(reverts.KindValidation, "zero amount")
	ErrZeroAddress       = reverts.New(reverts.KindValidation, "zero address")
	ErrInvalidDuration   = reverts.New(reverts.KindValidation, "invalid duration")
	ErrUnknownCategory   = reverts.New(reverts.KindValidation, "unknown category")
	ErrCategoryCap       = reverts.New(reverts.KindCapacity, "category allocation exceeded")
	ErrUnknownSchedule   = reverts.New(reverts.KindValidation, "unknown schedule")
	ErrAlreadyRevoked    = reverts.New(reverts.KindState, "schedule already revoked")
	ErrNothingToRelease  = reverts.New(reverts.KindValidation, "nothing to release")
	ErrUnknownLock       = reverts.New(reverts.KindValidation, "unknown lock")
	ErrNotBeneficiary    = reverts.New(reverts.KindAuth, "caller is not the beneficiary")
	ErrStillLocked       = reverts.New(reverts.KindState, "lock not expired")
	ErrAlreadyWithdrawn  = reverts.New(reverts.KindState, "lock already withdrawn")
	ErrCapBelowAllocated = reverts.New(reverts.KindValidation, "cap below allocated amount")

	slotCategories    = gf.BytesToBytes32([]byte("categories"))
	slotCategoryNames = gf.BytesToBytes32([]byte("category-names"))
	slotSchedules     = gf.BytesToBytes32([]byte("schedules"))
	slotUserSchedules = gf.BytesToBytes32([]byte("user-schedules"))
	slotLocks         = gf.BytesToBytes32([]byte("locks"))
	slotUserLocks     = gf.BytesToBytes32([]byte("user-locks"))
)

// Category bounds the total of the schedules created from it.
type Category struct {
	Name      string
	Cap       *big.Int
	Allocated *big.Int
}

// Schedule vests Total linearly over Duration from Start, nothing before Start+Cliff.
type Schedule struct {
	Beneficiary gf.Address
	Category    string
	Total       *big.Int
	Released    *big.Int
	Start       uint64
	Cliff       uint64
	Duration    uint64
	Revoked     bool
	RevokedAt   uint64
}

// Lock holds Amount for Beneficiary until UnlockAt.
type Lock struct {
	Owner       gf.Address
	Beneficiary gf.Address
	Amount      *big.Int
	UnlockAt    uint64
	Withdrawn   bool
}

type categoryKey string

func (k categoryKey) Bytes() []byte { return []byte(k) }

// Distributor implements native methods of `Distributor` contract.
type Distributor struct {
	addr    gf.Address
	gfToken gf.Address
	state   *state.State
	context *solidity.Context

	categories    *solidity.Mapping[categoryKey, *Category]
	categoryNames *solidity.Array[string]
	schedules     *solidity.Array[Schedule]
	locks         *solidity.Array[Lock]
}

func New(addr gf.Address, state *state.State, gfToken gf.Address) *Distributor {
	sctx := solidity.NewContext(addr, state)
	return &Distributor{
		addr:          addr,
		gfToken:       gfToken,
		state:         state,
		context:       sctx,
		categories:    solidity.NewMapping[categoryKey, *Category](sctx, slotCategories),
		categoryNames: solidity.NewArray[string](sctx, slotCategoryNames),
		schedules:     solidity.NewArray[Schedule](sctx, slotSchedules),
		locks:         solidity.NewArray[Lock](sctx, slotLocks),
	}
}

func (d *Distributor) userSchedules(user gf.Address) *solidity.Array[uint64] {
	return solidity.NewArray[uint64](d.context, gf.Blake2b(slotUserSchedules.Bytes(), user.Bytes()))
}

func (d *Distributor) userLocks(user gf.Address) *solidity.Array[uint64] {
	return solidity.NewArray[uint64](d.context, gf.Blake2b(slotUserLocks.Bytes(), user.Bytes()))
}

func (d *Distributor) token() *token.Token {
	return token.New(d.gfToken, d.state)
}

func (d *Distributor) emit(name string, account gf.Address, amount *big.Int, data map[string]string) {
	d.state.AddEvent(&tx.Event{
		Address: d.addr,
		Name:    name,
		Account: account,
		Amount:  new(big.Int).Set(amount),
		Data:    data,
	})
}

//
// Categories
//

func (d *Distributor) Category(name string) (*Category, error) {
	c, err := d.categories.Get(categoryKey(name))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get category")
	}
	if c.Name == "" {
		return nil, ErrUnknownCategory
	}
	return c, nil
}

func (d *Distributor) Categories() ([]*Category, error) {
	names, err := d.categoryNames.Slice(0, ^uint64(0))
	if err != nil {
		return nil, err
	}
	cats := make([]*Category, 0, len(names))
	for _, name := range names {
		c, err := d.Category(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// SetCategory creates a category or changes its cap. The cap cannot drop below what is allocated.
func (d *Distributor) SetCategory(name string, limit *big.Int) error {
	if name == "" {
		return ErrUnknownCategory
	}
	c, err := d.categories.Get(categoryKey(name))
	if err != nil {
		return err
	}
	if c.Name == "" {
		if _, err := d.categoryNames.Push(name); err != nil {
			return err
		}
		c = &Category{Name: name, Allocated: new(big.Int)}
	}
	if limit.Cmp(c.Allocated) < 0 {
		return ErrCapBelowAllocated
	}
	c.Cap = new(big.Int).Set(limit)
	return d.categories.Set(categoryKey(name), c)
}

//
// Vesting
//

func (d *Distributor) Schedule(id uint64) (*Schedule, error) {
	s, err := d.schedules.Get(id)
	if err != nil {
		if errors.Is(err, solidity.ErrIndexOutOfRange) {
			return nil, ErrUnknownSchedule
		}
		return nil, err
	}
	return &s, nil
}

// SchedulesOf returns the schedule ids of beneficiary.
func (d *Distributor) SchedulesOf(beneficiary gf.Address) ([]uint64, error) {
	return d.userSchedules(beneficiary).Slice(0, ^uint64(0))
}

// CreateSchedule allocates total from category to a new schedule and returns its id.
func (d *Distributor) CreateSchedule(beneficiary gf.Address, category string, total *big.Int, start, cliff, duration uint64) (uint64, error) {
	if beneficiary.IsZero() {
		return 0, ErrZeroAddress
	}
	if total.Sign() <= 0 {
		return 0, ErrZeroAmount
	}
	if duration == 0 || cliff > duration {
		return 0, ErrInvalidDuration
	}
	c, err := d.Category(category)
	if err != nil {
		return 0, err
	}
	allocated := new(big.Int).Add(c.Allocated, total)
	if allocated.Cmp(c.Cap) > 0 {
		return 0, ErrCategoryCap
	}
	c.Allocated = allocated
	if err := d.categories.Set(categoryKey(category), c); err != nil {
		return 0, err
	}

	id, err := d.schedules.Push(Schedule{
		Beneficiary: beneficiary,
		Category:    category,
		Total:       new(big.Int).Set(total),
		Released:    new(big.Int),
		Start:       start,
		Cliff:       cliff,
		Duration:    duration,
	})
	if err != nil {
		return 0, err
	}
	if _, err := d.userSchedules(beneficiary).Push(id); err != nil {
		return 0, err
	}
	d.emit("ScheduleCreated", beneficiary, total, map[string]string{
		"id":       strconv.FormatUint(id, 10),
		"category": category,
	})
	return id, nil
}

// vested is 0 before start+cliff, total from start+duration, linear in between.
// A revoked schedule stops at its revocation time.
func vested(s *Schedule, now uint64) (*big.Int, error) {
	if s.Revoked && now > s.RevokedAt {
		now = s.RevokedAt
	}
	switch {
	case now < s.Start+s.Cliff:
		return new(big.Int), nil
	case now >= s.Start+s.Duration:
		return new(big.Int).Set(s.Total), nil
	default:
		return fixedpoint.MulDiv(
			s.Total,
			new(big.Int).SetUint64(now-s.Start),
			new(big.Int).SetUint64(s.Duration),
		)
	}
}

func (d *Distributor) Vested(id, now uint64) (*big.Int, error) {
	s, err := d.Schedule(id)
	if err != nil {
		return nil, err
	}
	return vested(s, now)
}

func (d *Distributor) Releasable(id, now uint64) (*big.Int, error) {
	s, err := d.Schedule(id)
	if err != nil {
		return nil, err
	}
	v, err := vested(s, now)
	if err != nil {
		return nil, err
	}
	return v.Sub(v, s.Released), nil
}

// Release pays the vested but unreleased amount to the beneficiary. Anyone may trigger it.
func (d *Distributor) Release(id, now uint64) (*big.Int, error) {
	s, err := d.Schedule(id)
	if err != nil {
		return nil, err
	}
	v, err := vested(s, now)
	if err != nil {
		return nil, err
	}
	amount := v.Sub(v, s.Released)
	if amount.Sign() <= 0 {
		return nil, ErrNothingToRelease
	}
	s.Released = new(big.Int).Add(s.Released, amount)
	if err := d.schedules.Set(id, *s); err != nil {
		return nil, err
	}
	if err := d.token().Transfer(d.addr, s.Beneficiary, amount); err != nil {
		return nil, errors.WithMessage(err, "pay vested")
	}
	d.emit("Released", s.Beneficiary, amount, map[string]string{"id": strconv.FormatUint(id, 10)})
	logger.Info("vesting released", "id", id, "beneficiary", s.Beneficiary, "amount", amount)
	return amount, nil
}

// Revoke freezes the schedule at now and returns the unvested remainder to its category.
func (d *Distributor) Revoke(id, now uint64) (*big.Int, error) {
	s, err := d.Schedule(id)
	if err != nil {
		return nil, err
	}
	if s.Revoked {
		return nil, ErrAlreadyRevoked
	}
	v, err := vested(s, now)
	if err != nil {
		return nil, err
	}
	unvested := new(big.Int).Sub(s.Total, v)

	c, err := d.Category(s.Category)
	if err != nil {
		return nil, err
	}
	c.Allocated = new(big.Int).Sub(c.Allocated, unvested)
	if err := d.categories.Set(categoryKey(s.Category), c); err != nil {
		return nil, err
	}

	s.Revoked = true
	s.RevokedAt = now
	if err := d.schedules.Set(id, *s); err != nil {
		return nil, err
	}
	d.emit("ScheduleRevoked", s.Beneficiary, unvested, map[string]string{"id": strconv.FormatUint(id, 10)})
	return unvested, nil
}

//
// Time-locks
//

func (d *Distributor) Lock(id uint64) (*Lock, error) {
	l, err := d.locks.Get(id)
	if err != nil {
		if errors.Is(err, solidity.ErrIndexOutOfRange) {
			return nil, ErrUnknownLock
		}
		return nil, err
	}
	return &l, nil
}

// LocksOf returns the lock ids of beneficiary.
func (d *Distributor) LocksOf(beneficiary gf.Address) ([]uint64, error) {
	return d.userLocks(beneficiary).Slice(0, ^uint64(0))
}

// CreateLock pulls amount of GF from owner, withdrawable by beneficiary after duration.
func (d *Distributor) CreateLock(owner, beneficiary gf.Address, amount *big.Int, duration, now uint64) (uint64, error) {
	if beneficiary.IsZero() {
		return 0, ErrZeroAddress
	}
	if amount.Sign() <= 0 {
		return 0, ErrZeroAmount
	}
	if duration == 0 {
		return 0, ErrInvalidDuration
	}
	if err := d.token().TransferFrom(d.addr, owner, d.addr, amount); err != nil {
		return 0, errors.WithMessage(err, "pull lock")
	}
	id, err := d.locks.Push(Lock{
		Owner:       owner,
		Beneficiary: beneficiary,
		Amount:      new(big.Int).Set(amount),
		UnlockAt:    now + duration,
	})
	if err != nil {
		return 0, err
	}
	if _, err := d.userLocks(beneficiary).Push(id); err != nil {
		return 0, err
	}
	d.emit("Locked", beneficiary, amount, map[string]string{
		"id":       strconv.FormatUint(id, 10),
		"owner":    owner.String(),
		"unlockAt": strconv.FormatUint(now+duration, 10),
	})
	return id, nil
}

// WithdrawLock pays an expired lock to its beneficiary.
func (d *Distributor) WithdrawLock(id uint64, caller gf.Address, now uint64) (*big.Int, error) {
	l, err := d.Lock(id)
	if err != nil {
		return nil, err
	}
	if l.Beneficiary != caller {
		return nil, ErrNotBeneficiary
	}
	if l.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}
	if now < l.UnlockAt {
		return nil, ErrStillLocked
	}
	l.Withdrawn = true
	if err := d.locks.Set(id, *l); err != nil {
		return nil, err
	}
	if err := d.token().Transfer(d.addr, caller, l.Amount); err != nil {
		return nil, errors.WithMessage(err, "pay lock")
	}
	d.emit("LockWithdrawn", caller, l.Amount, map[string]string{"id": strconv.FormatUint(id, 10)})
	return l.Amount, nil
}
