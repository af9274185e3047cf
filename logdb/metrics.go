// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/GoldFingerRWA/goldfinger/metrics"
)

var (
	metricEventQueryParameters = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogram("logdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	var used []string
	if filter.Contract != nil {
		used = append(used, "contract")
	}
	if filter.Name != "" {
		used = append(used, "name")
	}
	if filter.Account != nil {
		used = append(used, "account")
	}
	if filter.Ref != nil {
		used = append(used, "ref")
	}
	if filter.TxID != nil {
		used = append(used, "txID")
	}
	metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(used, ",")})

	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": order})

	if filter.Options != nil {
		metricLimitBucket().Observe(int64(min(filter.Options.Limit, 1001)))
	}
}
