// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roles keeps the allow-lists of privileged accounts.
// Each role is an enumerable set: an array of members plus a member->index map, removal is swap-and-pop.
package roles

import (
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
)

// Role names a permission.
type Role string

const (
	// Admin configures the protocol and manages roles.
	Admin Role = "admin"
	// Operator settles redeem requests, feeds prices and approves KYC.
	Operator Role = "operator"
)

var (
	ErrUnauthorized   = reverts.New(reverts.KindAuth, "unauthorized")
	ErrLastAdmin      = reverts.New(reverts.KindState, "cannot revoke the last admin")
	ErrUnknownRole    = reverts.New(reverts.KindValidation, "unknown role")
	slotMembers       = gf.BytesToBytes32([]byte("members"))
	slotMemberIndexes = gf.BytesToBytes32([]byte("member-indexes"))
)

func (r Role) Valid() bool {
	return r == Admin || r == Operator
}

// Roles binder of `Roles` contract.
type Roles struct {
	context *solidity.Context
	indexes *solidity.Mapping[gf.Bytes32, uint64]
}

func New(addr gf.Address, state *state.State) *Roles {
	ctx := solidity.NewContext(addr, state)
	return &Roles{
		context: ctx,
		indexes: solidity.NewMapping[gf.Bytes32, uint64](ctx, slotMemberIndexes),
	}
}

func (r *Roles) members(role Role) *solidity.Array[gf.Address] {
	return solidity.NewArray[gf.Address](r.context, gf.Blake2b(slotMembers.Bytes(), []byte(role)))
}

func indexKey(role Role, addr gf.Address) gf.Bytes32 {
	return gf.Blake2b([]byte(role), addr.Bytes())
}

// Has returns whether addr holds role.
func (r *Roles) Has(role Role, addr gf.Address) (bool, error) {
	idx, err := r.indexes.Get(indexKey(role, addr))
	if err != nil {
		return false, errors.Wrap(err, "failed to get member index")
	}
	return idx != 0, nil
}

// Require fails with ErrUnauthorized unless addr holds role.
func (r *Roles) Require(role Role, addr gf.Address) error {
	ok, err := r.Has(role, addr)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessage(ErrUnauthorized, string(role)+" role required")
	}
	return nil
}

// Add grants role without checking the caller. It returns false if addr already holds role.
func (r *Roles) Add(role Role, addr gf.Address) (bool, error) {
	if !role.Valid() {
		return false, ErrUnknownRole
	}
	ok, err := r.Has(role, addr)
	if err != nil || ok {
		return false, err
	}
	idx, err := r.members(role).Push(addr)
	if err != nil {
		return false, errors.Wrap(err, "failed to push member")
	}
	// stored 1-based, zero means absent
	if err := r.indexes.Set(indexKey(role, addr), idx+1); err != nil {
		return false, err
	}
	return true, nil
}

// Remove revokes role without checking the caller. It returns false if addr does not hold role.
func (r *Roles) Remove(role Role, addr gf.Address) (bool, error) {
	key := indexKey(role, addr)
	idx, err := r.indexes.Get(key)
	if err != nil || idx == 0 {
		return false, err
	}
	members := r.members(role)
	n, err := members.Len()
	if err != nil {
		return false, err
	}
	if role == Admin && n == 1 {
		return false, ErrLastAdmin
	}
	last, err := members.Get(n - 1)
	if err != nil {
		return false, err
	}
	if err := members.SwapRemove(idx - 1); err != nil {
		return false, err
	}
	if last != addr {
		if err := r.indexes.Set(indexKey(role, last), idx); err != nil {
			return false, err
		}
	}
	r.indexes.Delete(key)
	return true, nil
}

// Grant is Add restricted to admins.
func (r *Roles) Grant(caller gf.Address, role Role, addr gf.Address) (bool, error) {
	if err := r.Require(Admin, caller); err != nil {
		return false, err
	}
	return r.Add(role, addr)
}

// Revoke is Remove restricted to admins.
func (r *Roles) Revoke(caller gf.Address, role Role, addr gf.Address) (bool, error) {
	if err := r.Require(Admin, caller); err != nil {
		return false, err
	}
	return r.Remove(role, addr)
}

// Members lists the holders of role.
func (r *Roles) Members(role Role) ([]gf.Address, error) {
	return r.members(role).Slice(0, ^uint64(0))
}

// Count returns the number of holders of role.
func (r *Roles) Count(role Role) (uint64, error) {
	return r.members(role).Len()
}
