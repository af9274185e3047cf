// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"strconv"
	"time"

	"github.com/GoldFingerRWA/goldfinger/metrics"
	"github.com/GoldFingerRWA/goldfinger/tx"
)

var (
	metricTxCounter  = metrics.LazyLoadCounterVec("tx_executed_count", []string{"method", "reverted"})
	metricTxDuration = metrics.LazyLoadHistogram("tx_execution_duration_ms", metrics.BucketExecution)
	metricBestBlock  = metrics.LazyLoadGauge("best_block_number")
)

func metricsRecordExecution(resolved *ResolvedTransaction, receipt *tx.Receipt, elapsed time.Duration) {
	for _, clause := range resolved.Clauses {
		metricTxCounter().AddWithLabel(1, map[string]string{
			"method":   clause.Method(),
			"reverted": strconv.FormatBool(receipt.Reverted),
		})
	}
	metricTxDuration().Observe(elapsed.Milliseconds())
	metricBestBlock().Set(int64(receipt.BlockNumber))
}
