// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/genesis"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/test/testchain"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	ts       *httptest.Server
	chain    *testchain.Chain
	redeemID gf.Bytes32
	redeemer genesis.DevAccount
	operator genesis.DevAccount
)

func TestVault(t *testing.T) {
	initVaultServer(t)
	defer ts.Close()
	defer chain.Close()

	for name, tt := range map[string]func(*testing.T){
		"getConfig":              getConfig,
		"previewMint":            previewMint,
		"previewMintBadAmount":   previewMintBadAmount,
		"previewRedeem":          previewRedeem,
		"getRequest":             getRequest,
		"getRequestNotFound":     getRequestNotFound,
		"getRequestBadID":        getRequestBadID,
		"getRequests":            getRequests,
		"getUserRequests":        getUserRequests,
		"getRequestsLimitTooBig": getRequestsLimitTooBig,
	} {
		t.Run(name, tt)
	}
}

func getConfig(t *testing.T) {
	var cfg Config
	httpGetJSON(t, "/vault/config", http.StatusOK, &cfg)

	assert.Equal(t, gf.InitialMintFeeBps.Uint64(), cfg.MintFeeBps)
	assert.Equal(t, gf.InitialRedeemFeeBps.Uint64(), cfg.RedeemFeeBps)
	assert.Equal(t, "10", cfg.MinimumAmount.Value)
	assert.True(t, cfg.KYCEnforced)
	assert.Equal(t, genesis.DevAccounts()[0].Address, cfg.Recipient)
	assert.Equal(t, []gf.Address{genesis.DevUSDC}, cfg.Stablecoins)
	require.NotNil(t, cfg.NAV)
	assert.Equal(t, "100000000", cfg.NAV.Raw)
	assert.Equal(t, "100", cfg.NAV.Value)
}

func previewMint(t *testing.T) {
	var preview MintPreview
	httpGetJSON(t, "/vault/preview/mint?usd=1000000000", http.StatusOK, &preview)

	assert.Equal(t, "1000", preview.USD.Value)
	assert.Equal(t, "10000000", preview.Gross.Raw)
	assert.Equal(t, "50000", preview.Fee.Raw)
	assert.Equal(t, "9950000", preview.Net.Raw)
	assert.Equal(t, "9.95", preview.Net.Value)
}

func previewMintBadAmount(t *testing.T) {
	httpGet(t, "/vault/preview/mint", http.StatusBadRequest)
	httpGet(t, "/vault/preview/mint?usd=abc", http.StatusBadRequest)
	httpGet(t, "/vault/preview/mint?usd=-1", http.StatusBadRequest)
}

func previewRedeem(t *testing.T) {
	var preview RedeemPreview
	httpGetJSON(t, "/vault/preview/redeem?art=5000000", http.StatusOK, &preview)
	assert.Equal(t, "500000000", preview.UsdGross.Raw)
	assert.Equal(t, "2500000", preview.UsdFee.Raw)
	assert.Equal(t, "497.5", preview.UsdNet.Value)

	httpGetJSON(t, "/vault/preview/redeem?art=5000000&stable="+genesis.DevUSDC.String(), http.StatusOK, &preview)
	require.NotNil(t, preview.TokenNetOut)
	assert.Equal(t, "497500000", preview.TokenNetOut.Raw)

	httpGet(t, "/vault/preview/redeem?art=5000000&stable=0x01", http.StatusBadRequest)
}

func getRequest(t *testing.T) {
	var req Request
	httpGetJSON(t, "/vault/requests/"+redeemID.String(), http.StatusOK, &req)

	assert.Equal(t, redeemID, req.ID)
	assert.Equal(t, redeemer.Address, req.Account)
	assert.Equal(t, genesis.DevUSDC, req.StableToken)
	assert.Equal(t, "5", req.ArtAmount.Value)
	assert.Equal(t, "497500000", req.TokenNetOut.Raw)
	assert.Equal(t, "completed", req.Status)
	assert.Equal(t, chain.Genesis().LaunchTime(), req.CreatedAt)
	assert.NotNil(t, req.PayoutRef)
}

func getRequestNotFound(t *testing.T) {
	httpGet(t, "/vault/requests/"+gf.Bytes32{1}.String(), http.StatusNotFound)
}

func getRequestBadID(t *testing.T) {
	httpGet(t, "/vault/requests/0x1234", http.StatusBadRequest)
}

func getRequests(t *testing.T) {
	var reqs []*Request
	httpGetJSON(t, "/vault/requests", http.StatusOK, &reqs)
	require.Len(t, reqs, 2)
	assert.Equal(t, redeemID, reqs[0].ID)

	httpGetJSON(t, "/vault/requests?pending=true", http.StatusOK, &reqs)
	require.Len(t, reqs, 1)
	assert.Equal(t, "pending", reqs[0].Status)
	assert.Equal(t, "2", reqs[0].ArtAmount.Value)

	httpGetJSON(t, "/vault/requests?offset=1&limit=1", http.StatusOK, &reqs)
	require.Len(t, reqs, 1)
	assert.NotEqual(t, redeemID, reqs[0].ID)

	httpGetJSON(t, "/vault/requests?offset=5", http.StatusOK, &reqs)
	assert.Empty(t, reqs)
}

func getUserRequests(t *testing.T) {
	var reqs []*Request
	httpGetJSON(t, "/vault/users/"+redeemer.Address.String()+"/requests", http.StatusOK, &reqs)
	assert.Len(t, reqs, 2)

	httpGetJSON(t, "/vault/users/"+operator.Address.String()+"/requests", http.StatusOK, &reqs)
	assert.Empty(t, reqs)

	httpGet(t, "/vault/users/invalid/requests", http.StatusBadRequest)
}

func getRequestsLimitTooBig(t *testing.T) {
	httpGet(t, "/vault/requests?limit=100000", http.StatusBadRequest)
}

func initVaultServer(t *testing.T) {
	var err error
	chain, err = testchain.NewDefault()
	require.NoError(t, err)

	accounts := genesis.DevAccounts()
	redeemer, operator = accounts[2], accounts[1]
	usdc := builtin.Token(genesis.DevUSDC, chain.State())

	_, err = chain.MintClauses(redeemer,
		tx.NewClause(usdc.Address(), "approve").MustWithArgs(map[string]any{"spender": builtin.Vault.Address, "amount": "1000000000"}),
		tx.NewClause(builtin.Vault.Address, "mint").MustWithArgs(map[string]any{"stable": genesis.DevUSDC, "amount": "1000000000"}),
	)
	require.NoError(t, err)

	receipt, err := chain.MintClauses(redeemer,
		tx.NewClause(builtin.Vault.Address, "redeem").MustWithArgs(map[string]any{"stable": genesis.DevUSDC, "amount": "5000000"}),
	)
	require.NoError(t, err)
	var req struct{ ID gf.Bytes32 }
	require.NoError(t, json.Unmarshal(receipt.Outputs[0].Result, &req))
	redeemID = req.ID

	_, err = chain.MintClauses(operator,
		tx.NewClause(builtin.Vault.Address, "completeRedeem").MustWithArgs(map[string]any{"id": redeemID, "txRef": "wire-0001"}),
	)
	require.NoError(t, err)

	chain.Advance(60)
	_, err = chain.MintClauses(redeemer,
		tx.NewClause(builtin.Vault.Address, "redeem").MustWithArgs(map[string]any{"stable": genesis.DevUSDC, "amount": "2000000"}),
	)
	require.NoError(t, err)

	router := mux.NewRouter()
	New(chain.Runtime()).Mount(router, "/vault")
	ts = httptest.NewServer(router)
}

func httpGet(t *testing.T, path string, status int) []byte {
	res, err := http.Get(ts.URL + path) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, status, res.StatusCode, string(body))
	return body
}

func httpGetJSON(t *testing.T, path string, status int, v any) {
	require.NoError(t, json.Unmarshal(httpGet(t, path, status), v))
}
