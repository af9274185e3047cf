// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/api/node"
	"github.com/GoldFingerRWA/goldfinger/api/staking"
	"github.com/GoldFingerRWA/goldfinger/api/subscriptions"
	"github.com/GoldFingerRWA/goldfinger/metrics"
	"github.com/GoldFingerRWA/goldfinger/test/testchain"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	node.New(chain.Runtime(), node.Info{Name: "devnet"}).Mount(router, "/node")
	staking.New(chain.Runtime()).Mount(router, "/staking")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	httpGet(t, ts.URL+"/node/info")
	httpGet(t, ts.URL+"/node/info")
	_, code := httpGet(t, ts.URL+"/staking/pools/usdc")
	assert.Equal(t, http.StatusNotFound, code)
	_, code = httpGet(t, ts.URL+"/staking/pools/gf/users/0x01")
	assert.Equal(t, http.StatusBadRequest, code)
	// unrouted requests are not recorded
	_, code = httpGet(t, ts.URL+"/unknown")
	assert.Equal(t, http.StatusNotFound, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	text := string(body)
	assert.Contains(t, text, `goldfinger_api_request_count{code="200",method="GET",name="GET /node/info"} 2`)
	assert.Contains(t, text, `goldfinger_api_request_count{code="404",method="GET",name="GET /staking/pools/{pool}"} 1`)
	assert.Contains(t, text, `goldfinger_api_request_count{code="400",method="GET",name="GET /staking/pools/{pool}/users/{address}"} 1`)
	assert.Contains(t, text, `goldfinger_api_duration_ms_count{code="200",method="GET",name="GET /node/info"} 2`)
}

func TestWebsocketMetrics(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	sub := subscriptions.New(chain.Runtime(), chain.LogDB(), []string{"*"}, 10)
	defer sub.Close()
	sub.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/events"}
	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn1.Close()

	body, _ := httpGet(t, ts.URL+"/metrics")
	assert.Contains(t, string(body), `goldfinger_api_active_websocket_count{subject="events"} 1`)

	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn2.Close()

	body, _ = httpGet(t, ts.URL+"/metrics")
	assert.Contains(t, string(body), `goldfinger_api_active_websocket_count{subject="events"} 2`)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
