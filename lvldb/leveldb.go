// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/GoldFingerRWA/goldfinger/kv"
	"github.com/GoldFingerRWA/goldfinger/metrics"
)

var (
	_ kv.StoreCloser = (*LevelDB)(nil)

	logger = log.New("pkg", "lvldb")

	metricBatchWrites   = metrics.LazyLoadHistogram("ledger_batch_write_duration_ms", metrics.BucketExecution)
	metricBatchWriteOps = metrics.LazyLoadCounter("ledger_batch_write_ops_count")
)

const minCacheSize = 16 // MB

// Options for opening a persistent store. Values below the minimum are raised to it.
type Options struct {
	CacheSize              int // MB
	OpenFilesCacheCapacity int
}

// LevelDB is the ledger store. Plain puts are asynchronous, batches are synced to disk.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage
}

// New opens the store at path, creating it when missing. A corrupted store is recovered.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger store")
	}
	return open(stg, opts)
}

// NewMem creates a store in memory.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	cache := max(opts.CacheSize, minCacheSize)
	o := &opt.Options{
		OpenFilesCacheCapacity: max(opts.OpenFilesCacheCapacity, minCacheSize),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}

	db, err := leveldb.Open(stg, o)
	if dberrors.IsCorrupted(err) {
		logger.Warn("ledger store corrupted, recovering", "err", err)
		db, err = leveldb.Recover(stg, o)
	}
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db, stg}, nil
}

func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get fails with an error satisfying IsNotFound for a missing key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Close closes the store and releases its files. Later operations fail.
func (ldb *LevelDB) Close() error {
	if err := ldb.db.Close(); err != nil {
		return err
	}
	return ldb.stg.Close()
}

// Size estimates the bytes the store occupies on disk.
func (ldb *LevelDB) Size() (int64, error) {
	sizes, err := ldb.db.SizeOf([]util.Range{{}})
	if err != nil {
		return 0, errors.Wrap(err, "size of ledger store")
	}
	return sizes.Sum(), nil
}

// NewBatch creates a batch that is written atomically and synced, so a committed state change
// survives a crash.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{ldb.db, new(leveldb.Batch)}
}

func (ldb *LevelDB) Iterate(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	if b.b.Len() == 0 {
		return nil
	}
	start := time.Now()
	if err := b.db.Write(b.b, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "write batch")
	}
	metricBatchWrites().Observe(time.Since(start).Milliseconds())
	metricBatchWriteOps().Add(int64(b.b.Len()))
	return nil
}
