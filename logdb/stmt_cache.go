// Copyright (c) 2020 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// filter queries are assembled per request, so the set of distinct query texts is bounded by the
// number of filter shapes rather than by traffic
const stmtCacheSize = 128

// stmtCache keeps the prepared statements of recently used queries.
// An evicted statement is closed.
type stmtCache struct {
	db    *sql.DB
	lock  sync.Mutex
	cache *lru.Cache
}

func newStmtCache(db *sql.DB) *stmtCache {
	cache, _ := lru.NewWithEvict(stmtCacheSize, func(_, value any) {
		_ = value.(*sql.Stmt).Close()
	})
	return &stmtCache{db: db, cache: cache}
}

func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if cached, ok := sc.cache.Get(query); ok {
		return cached.(*sql.Stmt), nil
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	sc.cache.Add(query, stmt)
	return stmt, nil
}

func (sc *stmtCache) Len() int {
	return sc.cache.Len()
}

// Clear closes all cached statements.
func (sc *stmtCache) Clear() {
	sc.lock.Lock()
	defer sc.lock.Unlock()
	sc.cache.Purge()
}
