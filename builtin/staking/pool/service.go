// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/builtin/solidity"
	"github.com/GoldFingerRWA/goldfinger/gf"
)

var (
	ErrUnknownPool = reverts.New(reverts.KindValidation, "unknown pool")
	ErrPoolExists  = reverts.New(reverts.KindState, "pool already exists")
	ErrInvalidRate = reverts.New(reverts.KindValidation, "rate exceeds 10000 bps")

	slotPools = gf.BytesToBytes32([]byte("pools"))
)

// Service stores the pools.
type Service struct {
	pools *solidity.Mapping[ID, *Pool]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools: solidity.NewMapping[ID, *Pool](sctx, slotPools),
	}
}

// Create registers a pool staking token with a zero-weight checkpoint at now.
func (s *Service) Create(id ID, token gf.Address, rateBps, now uint64) error {
	if !id.Valid() {
		return ErrUnknownPool
	}
	if rateBps > gf.BasisPoints {
		return ErrInvalidRate
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return err
	}
	if p.exists() {
		return ErrPoolExists
	}
	return s.pools.Set(id, newPool(token, rateBps, now))
}

// Get returns the pool or ErrUnknownPool.
func (s *Service) Get(id ID) (*Pool, error) {
	if !id.Valid() {
		return nil, ErrUnknownPool
	}
	p, err := s.pools.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if !p.exists() {
		return nil, ErrUnknownPool
	}
	return p, nil
}

func (s *Service) Set(id ID, p *Pool) error {
	if err := s.pools.Set(id, p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}
