// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kyc

import (
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/state"
)

var (
	ErrNotApproved = reverts.New(reverts.KindAuth, "kyc not approved")
	ErrEmptyName   = reverts.New(reverts.KindValidation, "empty name")

	slotRecords = gf.BytesToBytes32([]byte("records"))
)

// Record is the registry entry of an account.
type Record struct {
	Name       string
	Approved   bool
	ApprovedAt uint64
}

// Registry answers whether an account passed KYC.
type Registry struct {
	records *solidity.Mapping[gf.Address, *Record]
}

func New(addr gf.Address, state *state.State) *Registry {
	return &Registry{
		records: solidity.NewMapping[gf.Address, *Record](solidity.NewContext(addr, state), slotRecords),
	}
}

func (r *Registry) Approve(account gf.Address, name string, now uint64) error {
	if name == "" {
		return ErrEmptyName
	}
	return r.records.Set(account, &Record{Name: name, Approved: true, ApprovedAt: now})
}

// Revoke clears the approval but keeps the name on record.
func (r *Registry) Revoke(account gf.Address) error {
	rec, err := r.Record(account)
	if err != nil {
		return err
	}
	rec.Approved = false
	return r.records.Set(account, rec)
}

func (r *Registry) Record(account gf.Address) (*Record, error) {
	rec, err := r.records.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get kyc record")
	}
	return rec, nil
}

func (r *Registry) IsKYCApproved(account gf.Address) (bool, error) {
	rec, err := r.Record(account)
	if err != nil {
		return false, err
	}
	return rec.Approved, nil
}

// Require fails with ErrNotApproved unless account is approved.
func (r *Registry) Require(account gf.Address) error {
	ok, err := r.IsKYCApproved(account)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotApproved
	}
	return nil
}
