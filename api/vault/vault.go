// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/vault/request"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/runtime"
	"github.com/GoldFingerRWA/goldfinger/state"
)

func usd(v *big.Int) *utils.Amount {
	return utils.NewAmount(v, gf.USDDecimals)
}

type Vault struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Vault {
	return &Vault{rt}
}

func (v *Vault) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	native := builtin.Vault.Native(v.rt.State())
	cfg, err := native.Config()
	if err != nil {
		return err
	}
	// nav is omitted while the oracle has no price
	var nav *utils.Amount
	if price, err := native.NAV(); err == nil {
		nav = usd(price)
	}
	return utils.WriteJSON(w, convertConfig(cfg, nav))
}

func (v *Vault) handlePreviewMint(w http.ResponseWriter, req *http.Request) error {
	amount, err := utils.ParseAmount(req, "usd")
	if err != nil {
		return err
	}
	preview, err := builtin.Vault.Native(v.rt.State()).PreviewMint(amount)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertMintPreview(preview))
}

func (v *Vault) handlePreviewRedeem(w http.ResponseWriter, req *http.Request) error {
	amount, err := utils.ParseAmount(req, "art")
	if err != nil {
		return err
	}
	var stable gf.Address
	if req.URL.Query().Get("stable") != "" {
		if stable, err = utils.ParseAddress(req, "stable"); err != nil {
			return err
		}
	}

	st := v.rt.State()
	preview, err := builtin.Vault.Native(st).PreviewRedeem(stable, amount)
	if err != nil {
		return err
	}
	var decimals uint8
	if !stable.IsZero() {
		if decimals, err = builtin.Token(stable, st).Decimals(); err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, convertRedeemPreview(preview, decimals))
}

// convertRequests renders requests, resolving the decimals of each payout token once.
func convertRequests(st *state.State, reqs []*request.Request) ([]*Request, error) {
	decimals := make(map[gf.Address]uint8)
	result := make([]*Request, 0, len(reqs))
	for _, r := range reqs {
		d, ok := decimals[r.StableToken]
		if !ok {
			var err error
			if d, err = builtin.Token(r.StableToken, st).Decimals(); err != nil {
				return nil, err
			}
			decimals[r.StableToken] = d
		}
		result = append(result, convertRequest(r, d))
	}
	return result, nil
}

func (v *Vault) handleGetRequest(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseBytes32(req, "id")
	if err != nil {
		return err
	}
	st := v.rt.State()
	r, err := builtin.Vault.Native(st).Request(id)
	if err != nil {
		if errors.Is(err, request.ErrRequestNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	result, err := convertRequests(st, []*request.Request{r})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result[0])
}

func (v *Vault) handleGetRequests(w http.ResponseWriter, req *http.Request) error {
	page, err := utils.ParsePage(req)
	if err != nil {
		return err
	}
	pending, err := utils.ParseBool(req, "pending")
	if err != nil {
		return err
	}
	st := v.rt.State()
	reqs, err := builtin.Vault.Native(st).Requests(page.Offset, page.Limit, pending)
	if err != nil {
		return err
	}
	result, err := convertRequests(st, reqs)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (v *Vault) handleGetUserRequests(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.ParseAddress(req, "address")
	if err != nil {
		return err
	}
	page, err := utils.ParsePage(req)
	if err != nil {
		return err
	}
	pending, err := utils.ParseBool(req, "pending")
	if err != nil {
		return err
	}
	st := v.rt.State()
	reqs, err := builtin.Vault.Native(st).UserRequests(user, page.Offset, page.Limit, pending)
	if err != nil {
		return err
	}
	result, err := convertRequests(st, reqs)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (v *Vault) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /vault/config").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetConfig))
	sub.Path("/preview/mint").
		Methods(http.MethodGet).
		Name("GET /vault/preview/mint").
		HandlerFunc(utils.WrapHandlerFunc(v.handlePreviewMint))
	sub.Path("/preview/redeem").
		Methods(http.MethodGet).
		Name("GET /vault/preview/redeem").
		HandlerFunc(utils.WrapHandlerFunc(v.handlePreviewRedeem))
	sub.Path("/requests").
		Methods(http.MethodGet).
		Name("GET /vault/requests").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetRequests))
	sub.Path("/requests/{id}").
		Methods(http.MethodGet).
		Name("GET /vault/requests/{id}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetRequest))
	sub.Path("/users/{address}/requests").
		Methods(http.MethodGet).
		Name("GET /vault/users/{address}/requests").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetUserRequests))
}
