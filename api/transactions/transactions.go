// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/GoldFingerRWA/goldfinger/api/utils"
	"github.com/GoldFingerRWA/goldfinger/builtin/reverts"
	"github.com/GoldFingerRWA/goldfinger/runtime"
)

var logger = log.New("pkg", "transactions")

type Transactions struct {
	rt           *runtime.Runtime
	enableWrites bool
}

func New(rt *runtime.Runtime, enableWrites bool) *Transactions {
	return &Transactions{
		rt,
		enableWrites,
	}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	if !t.enableWrites {
		return utils.Forbidden(errors.New("transaction submission disabled"))
	}
	var body Transaction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := body.convert()
	if err != nil {
		return utils.BadRequest(err)
	}

	receipt, err := t.rt.Execute(req.Context(), trx)
	if err != nil {
		if reverts.IsRevertErr(err) {
			metricTransactionType().AddWithLabel(1, map[string]string{"type": "rejected"})
		}
		return err
	}
	typ := "executed"
	if receipt.Reverted {
		typ = "reverted"
	}
	metricTransactionType().AddWithLabel(1, map[string]string{"type": typ})
	logger.Debug("transaction received", "id", receipt.TxID, "origin", receipt.Origin, "reverted", receipt.Reverted)

	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) handleCall(w http.ResponseWriter, req *http.Request) error {
	var body Call
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	clause, err := body.Clause.convert()
	if err != nil {
		return utils.BadRequest(err)
	}

	result, err := t.rt.Call(req.Context(), body.Caller, clause)
	if err != nil {
		if !reverts.IsRevertErr(err) {
			return err
		}
		return utils.WriteJSON(w, &CallResult{Reverted: true, Error: err.Error()})
	}
	return utils.WriteJSON(w, &CallResult{Result: result})
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/call").
		Methods(http.MethodPost).
		Name("POST /transactions/call").
		HandlerFunc(utils.WrapHandlerFunc(t.handleCall))
}
