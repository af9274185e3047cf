// Copyright (c) 2025 The GoldFinger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/robfig/cron/v3"

	"github.com/GoldFingerRWA/goldfinger/builtin"
	"github.com/GoldFingerRWA/goldfinger/builtin/staking/pool"
	"github.com/GoldFingerRWA/goldfinger/fixedpoint"
	"github.com/GoldFingerRWA/goldfinger/gf"
	"github.com/GoldFingerRWA/goldfinger/metrics"
	gfruntime "github.com/GoldFingerRWA/goldfinger/runtime"
)

const maxClockOffset = 5 * time.Second

var (
	metricPoolStaked     = metrics.LazyLoadGaugeVec("staking_pool_staked_tokens", []string{"pool"})
	metricPoolWeighted   = metrics.LazyLoadGaugeVec("staking_pool_weighted_tokens", []string{"pool"})
	metricPendingRedeems = metrics.LazyLoadGauge("vault_pending_redeem_count")
	metricBestBlock      = metrics.LazyLoadGauge("ledger_best_block")
	metricStoreSize      = metrics.LazyLoadGauge("ledger_store_size_bytes")
)

// sizer reports the disk usage of a store.
type sizer interface {
	Size() (int64, error)
}

// Stats is a snapshot of the ledger figures reported periodically.
type Stats struct {
	BestBlock      uint64
	PoolStaked     map[pool.ID]*big.Int
	PoolWeighted   map[pool.ID]*big.Int
	PendingRedeems uint64
}

func collectStats(rt *gfruntime.Runtime) (*Stats, error) {
	st := rt.State()
	best, err := gfruntime.BestBlock(st)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		BestBlock:    best.Number,
		PoolStaked:   make(map[pool.ID]*big.Int),
		PoolWeighted: make(map[pool.ID]*big.Int),
	}

	staking := builtin.Staking.Native(st)
	for _, id := range pool.IDs {
		p, err := staking.Pool(id)
		if err != nil {
			return nil, err
		}
		stats.PoolStaked[id] = p.TotalStaked
		stats.PoolWeighted[id] = p.WeightedTotal
	}

	vault := builtin.Vault.Native(st)
	count, err := vault.RequestCount()
	if err != nil {
		return nil, err
	}
	for offset := uint64(0); offset < count; offset += gf.MaxPageSize {
		pending, err := vault.Requests(offset, gf.MaxPageSize, true)
		if err != nil {
			return nil, err
		}
		stats.PendingRedeems += uint64(len(pending))
	}
	return stats, nil
}

// wholeTokens truncates amount to whole units of a token with decimals.
func wholeTokens(amount *big.Int, decimals uint8) int64 {
	if amount == nil {
		return 0
	}
	return new(big.Int).Quo(amount, fixedpoint.Pow10(decimals)).Int64()
}

func reportStats(rt *gfruntime.Runtime, store sizer) {
	stats, err := collectStats(rt)
	if err != nil {
		logger.Warn("failed to collect stats", "err", err)
		return
	}
	st := rt.State()
	for id, staked := range stats.PoolStaked {
		p, err := builtin.Staking.Native(st).Pool(id)
		if err != nil {
			logger.Warn("failed to get pool", "pool", id, "err", err)
			continue
		}
		decimals, err := builtin.Token(p.Token, st).Decimals()
		if err != nil {
			logger.Warn("failed to get token decimals", "pool", id, "err", err)
			continue
		}
		labels := map[string]string{"pool": id.String()}
		metricPoolStaked().SetWithLabel(wholeTokens(staked, decimals), labels)
		metricPoolWeighted().SetWithLabel(wholeTokens(stats.PoolWeighted[id], decimals), labels)
	}
	metricPendingRedeems().Set(int64(stats.PendingRedeems))
	metricBestBlock().Set(int64(stats.BestBlock))
	if size, err := store.Size(); err != nil {
		logger.Warn("failed to get store size", "err", err)
	} else {
		metricStoreSize().Set(size)
	}

	logger.Info("ledger stats",
		"best", stats.BestBlock,
		"pendingRedeems", stats.PendingRedeems,
		"stakedART", stats.PoolStaked[pool.ART],
		"stakedGF", stats.PoolStaked[pool.GF],
	)
}

func checkClockOffset(server string) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// startReporter schedules the stats report and clock check. The returned func stops them.
func startReporter(rt *gfruntime.Runtime, store sizer, spec, ntpServer string) (func(), error) {
	if spec == "" {
		return func() {}, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { reportStats(rt, store) }); err != nil {
		return nil, err
	}
	if ntpServer != "" {
		if _, err := c.AddFunc("@hourly", func() { checkClockOffset(ntpServer) }); err != nil {
			return nil, err
		}
		go checkClockOffset(ntpServer)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
