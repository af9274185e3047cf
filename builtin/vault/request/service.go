// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request

import (
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

var (
	ErrDuplicateRequestID = reverts.New(reverts.KindState, "duplicate request id")
	ErrRequestNotFound    = reverts.New(reverts.KindValidation, "request not found")
	ErrDuplicateTxRef     = reverts.New(reverts.KindState, "payout reference already used")

	slotRequests = gf.BytesToBytes32([]byte("requests"))
	slotAll      = gf.BytesToBytes32([]byte("request-ids"))
	slotUser     = gf.BytesToBytes32([]byte("user-request-ids"))
	slotUsedRefs = gf.BytesToBytes32([]byte("used-refs"))
)

// Service is the append-only store of redeem requests with global and per-user indexes.
type Service struct {
	context  *solidity.Context
	requests *solidity.Mapping[gf.Bytes32, *Request]
	all      *solidity.Array[gf.Bytes32]
	usedRefs *solidity.Mapping[gf.Bytes32, bool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		context:  sctx,
		requests: solidity.NewMapping[gf.Bytes32, *Request](sctx, slotRequests),
		all:      solidity.NewArray[gf.Bytes32](sctx, slotAll),
		usedRefs: solidity.NewMapping[gf.Bytes32, bool](sctx, slotUsedRefs),
	}
}

func (s *Service) byUser(user gf.Address) *solidity.Array[gf.Bytes32] {
	return solidity.NewArray[gf.Bytes32](s.context, gf.Blake2b(slotUser.Bytes(), user.Bytes()))
}

// Add stores a new request and appends it to both indexes.
func (s *Service) Add(req *Request) error {
	existing, err := s.requests.Get(req.ID)
	if err != nil {
		return errors.Wrap(err, "failed to get request")
	}
	if existing.exists() {
		return ErrDuplicateRequestID
	}
	if err := s.requests.Set(req.ID, req); err != nil {
		return err
	}
	if _, err := s.all.Push(req.ID); err != nil {
		return err
	}
	_, err = s.byUser(req.Account).Push(req.ID)
	return err
}

func (s *Service) Get(id gf.Bytes32) (*Request, error) {
	req, err := s.requests.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get request")
	}
	if !req.exists() {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// Update overwrites an existing request.
func (s *Service) Update(req *Request) error {
	if _, err := s.Get(req.ID); err != nil {
		return err
	}
	return s.requests.Set(req.ID, req)
}

// UseRef marks a payout reference digest as consumed.
func (s *Service) UseRef(digest gf.Bytes32) error {
	used, err := s.usedRefs.Get(digest)
	if err != nil {
		return err
	}
	if used {
		return ErrDuplicateTxRef
	}
	return s.usedRefs.Set(digest, true)
}

func (s *Service) RefUsed(digest gf.Bytes32) (bool, error) {
	return s.usedRefs.Get(digest)
}

func (s *Service) Count() (uint64, error) {
	return s.all.Len()
}

func (s *Service) UserCount(user gf.Address) (uint64, error) {
	return s.byUser(user).Len()
}

// List returns the requests in the index window [offset, offset+limit), limit capped to
// gf.MaxPageSize. With pendingOnly the window is filtered, so a page may hold fewer entries.
func (s *Service) List(offset, limit uint64, pendingOnly bool) ([]*Request, error) {
	return s.list(s.all, offset, limit, pendingOnly)
}

// UserList is List over the requests of one account.
func (s *Service) UserList(user gf.Address, offset, limit uint64, pendingOnly bool) ([]*Request, error) {
	return s.list(s.byUser(user), offset, limit, pendingOnly)
}

func (s *Service) list(index *solidity.Array[gf.Bytes32], offset, limit uint64, pendingOnly bool) ([]*Request, error) {
	ids, err := index.Slice(offset, min(limit, gf.MaxPageSize))
	if err != nil {
		return nil, err
	}
	reqs := make([]*Request, 0, len(ids))
	for _, id := range ids {
		req, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if pendingOnly && !req.Pending() {
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
