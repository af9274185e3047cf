// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/stakes"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
)

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

func parsePool(req *http.Request) (pool.ID, error) {
	switch strings.ToLower(mux.Vars(req)["pool"]) {
	case "art", "0":
		return pool.ART, nil
	case "gf", "1":
		return pool.GF, nil
	}
	return 0, utils.NotFound(errors.New("pool: unknown"))
}

func decimalsOf(st *state.State, token gf.Address) (uint8, error) {
	return builtin.Token(token, st).Decimals()
}

func (s *Staking) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePool(req)
	if err != nil {
		return err
	}
	st := s.rt.State()
	p, err := builtin.Staking.Native(st).Pool(id)
	if err != nil {
		return err
	}
	decimals, err := decimalsOf(st, p.Token)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(id, p, decimals))
}

func (s *Staking) handleGetEmission(w http.ResponseWriter, _ *http.Request) error {
	st := s.rt.State()
	em, err := builtin.Staking.Native(st).Emission()
	if err != nil {
		return err
	}
	decimals, err := builtin.GF.Native(st).Decimals()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Emission{
		Base: utils.NewAmount(em.Base, decimals),
		End:  em.End,
	})
}

func (s *Staking) handleGetUserSummary(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePool(req)
	if err != nil {
		return err
	}
	user, err := utils.ParseAddress(req, "address")
	if err != nil {
		return err
	}
	next, err := s.rt.NextBlock()
	if err != nil {
		return err
	}

	st := s.rt.State()
	native := builtin.Staking.Native(st)
	p, err := native.Pool(id)
	if err != nil {
		return err
	}
	summary, err := native.UserSummary(id, user, next.Time)
	if err != nil {
		return err
	}
	decimals, err := decimalsOf(st, p.Token)
	if err != nil {
		return err
	}
	rewardDecimals, err := builtin.GF.Native(st).Decimals()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSummary(summary, next.Time, decimals, rewardDecimals))
}

func (s *Staking) handleGetPositions(w http.ResponseWriter, req *http.Request) error {
	id, err := parsePool(req)
	if err != nil {
		return err
	}
	user, err := utils.ParseAddress(req, "address")
	if err != nil {
		return err
	}
	term, err := stakes.ParseTerm(mux.Vars(req)["term"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "term"))
	}
	page, err := utils.ParsePage(req)
	if err != nil {
		return err
	}
	next, err := s.rt.NextBlock()
	if err != nil {
		return err
	}

	st := s.rt.State()
	native := builtin.Staking.Native(st)
	p, err := native.Pool(id)
	if err != nil {
		return err
	}
	positions, err := native.Positions(id, user, term, page.Offset, page.Limit)
	if err != nil {
		return err
	}
	decimals, err := decimalsOf(st, p.Token)
	if err != nil {
		return err
	}

	result := make([]*Position, 0, len(positions))
	for i, pos := range positions {
		result = append(result, &Position{
			Index:    page.Offset + uint64(i),
			Term:     term,
			Amount:   utils.NewAmount(pos.Amount, decimals),
			UnlockAt: pos.UnlockAt,
			Matured:  pos.Matured(next.Time),
		})
	}
	return utils.WriteJSON(w, result)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/emission").
		Methods(http.MethodGet).
		Name("GET /staking/emission").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetEmission))
	sub.Path("/pools/{pool}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/pools/{pool}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetUserSummary))
	sub.Path("/pools/{pool}/users/{address}/positions/{term}").
		Methods(http.MethodGet).
		Name("GET /staking/pools/{pool}/users/{address}/positions/{term}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPositions))
}
