// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logs

import (
	"bytes"
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
	"github.com/GoldFingerRWA/goldfinger/logdb"
	"github.com/GoldFingerRWA/goldfinger/test/testchain"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

const defaultLogLimit uint64 = 5

var (
	ts    *httptest.Server
	chain *testchain.Chain
	alice genesis.DevAccount
	bob   genesis.DevAccount
)

func u64(v uint64) *uint64 { return &v }

func TestEvents(t *testing.T) {
	initLogsServer(t)
	defer ts.Close()
	defer chain.Close()

	for name, tt := range map[string]func(*testing.T){
		"filterAll":         filterAll,
		"filterByName":      filterByName,
		"filterByAccount":   filterByAccount,
		"filterByRange":     filterByRange,
		"filterByTimeRange": filterByTimeRange,
		"filterOrderDesc":   filterOrderDesc,
		"filterPaging":      filterPaging,
		"filterBadRequests": filterBadRequests,
		"filterOverLimit":   filterOverLimit,
	} {
		t.Run(name, tt)
	}
}

func filterAll(t *testing.T) {
	events := filter(t, &EventFilter{})
	require.Len(t, events, 4)
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Meta.BlockNumber)
		assert.Equal(t, alice.Address, ev.Meta.TxOrigin)
		assert.Equal(t, builtin.GF.Address, ev.Contract)
	}
	assert.Equal(t, "Transfer", events[0].Name)
	require.NotNil(t, events[0].Account)
	assert.Equal(t, alice.Address, *events[0].Account)
	assert.Equal(t, "1000", events[0].Amount)
	assert.Equal(t, bob.Address.String(), events[0].Data["to"])
	assert.Nil(t, events[0].Ref)
	assert.Equal(t, "Approval", events[3].Name)
}

func filterByName(t *testing.T) {
	events := filter(t, &EventFilter{Name: "Transfer"})
	assert.Len(t, events, 3)

	events = filter(t, &EventFilter{Name: "Minted"})
	assert.Empty(t, events)
}

func filterByAccount(t *testing.T) {
	events := filter(t, &EventFilter{Account: &alice.Address, Contract: &builtin.GF.Address})
	assert.Len(t, events, 4)

	events = filter(t, &EventFilter{Account: &bob.Address})
	assert.Empty(t, events)

	events = filter(t, &EventFilter{Contract: &builtin.ART.Address})
	assert.Empty(t, events)
}

func filterByRange(t *testing.T) {
	events := filter(t, &EventFilter{Range: &Range{Unit: logdb.Block, From: u64(2), To: u64(3)}})
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Meta.BlockNumber)
	assert.Equal(t, uint64(3), events[1].Meta.BlockNumber)

	// open ended
	events = filter(t, &EventFilter{Range: &Range{From: u64(3)}})
	assert.Len(t, events, 2)

	events = filter(t, &EventFilter{Range: &Range{From: u64(0), To: u64(^uint64(0))}})
	assert.Len(t, events, 4)
}

func filterByTimeRange(t *testing.T) {
	launch := chain.Genesis().LaunchTime()
	events := filter(t, &EventFilter{Range: &Range{Unit: logdb.Time, From: u64(launch + 10), To: u64(launch + 20)}})
	require.Len(t, events, 2)
	assert.Equal(t, launch+10, events[0].Meta.BlockTime)
}

func filterOrderDesc(t *testing.T) {
	events := filter(t, &EventFilter{Order: logdb.DESC})
	require.Len(t, events, 4)
	assert.Equal(t, uint64(4), events[0].Meta.BlockNumber)
	assert.Equal(t, uint64(1), events[3].Meta.BlockNumber)
}

func filterPaging(t *testing.T) {
	events := filter(t, &EventFilter{Options: &Options{Offset: 1, Limit: u64(2)}})
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Meta.BlockNumber)

	events = filter(t, &EventFilter{Options: &Options{Offset: 10}})
	assert.Empty(t, events)
}

func filterBadRequests(t *testing.T) {
	for _, body := range []string{
		`{"order":"up"}`,
		`{"range":{"unit":"epoch","from":1,"to":2}}`,
		`{"range":{"from":3,"to":2}}`,
		`{"unknown":true}`,
		`{"options":{"offset":18446744073709551615}}`,
		`not json`,
	} {
		post(t, ts.URL+"/logs/events", []byte(body), http.StatusBadRequest)
	}
	body, _ := json.Marshal(&EventFilter{Options: &Options{Limit: u64(defaultLogLimit + 1)}})
	post(t, ts.URL+"/logs/events", body, http.StatusForbidden)
}

func filterOverLimit(t *testing.T) {
	router := mux.NewRouter()
	New(chain.LogDB(), 3).Mount(router, "/logs")
	small := httptest.NewServer(router)
	defer small.Close()

	body, _ := json.Marshal(&EventFilter{})
	post(t, small.URL+"/logs/events", body, http.StatusForbidden)

	body, _ = json.Marshal(&EventFilter{Options: &Options{Limit: u64(3)}})
	res := post(t, small.URL+"/logs/events", body, http.StatusOK)
	var events []*FilteredEvent
	require.NoError(t, json.Unmarshal(res, &events))
	assert.Len(t, events, 3)
}

func filter(t *testing.T, f *EventFilter) []*FilteredEvent {
	body, err := json.Marshal(f)
	require.NoError(t, err)
	var events []*FilteredEvent
	require.NoError(t, json.Unmarshal(post(t, ts.URL+"/logs/events", body, http.StatusOK), &events))
	return events
}

func initLogsServer(t *testing.T) {
	var err error
	chain, err = testchain.NewDefault()
	require.NoError(t, err)
	accounts := genesis.DevAccounts()
	alice, bob = accounts[2], accounts[3]

	// blocks 1 to 3 carry one transfer each, block 4 an approval
	for range 3 {
		_, err = chain.MintClauses(alice,
			tx.NewClause(builtin.GF.Address, "transfer").MustWithArgs(map[string]any{"to": bob.Address, "amount": "1000"}),
		)
		require.NoError(t, err)
		chain.Advance(10)
	}
	_, err = chain.MintClauses(alice,
		tx.NewClause(builtin.GF.Address, "approve").MustWithArgs(map[string]any{"spender": bob.Address, "amount": "1"}),
	)
	require.NoError(t, err)

	router := mux.NewRouter()
	New(chain.LogDB(), defaultLogLimit).Mount(router, "/logs")
	ts = httptest.NewServer(router)
}

func post(t *testing.T, url string, body []byte, status int) []byte {
	res, err := http.Post(url, "application/x-www-form-urlencoded", bytes.NewReader(body)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, status, res.StatusCode, string(r))
	return r
}
