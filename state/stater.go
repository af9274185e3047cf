// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/GoldFingerRWA/goldfinger/kv"
)

const storageBucket = kv.Bucket("s")

// Stater is the state creator. States created by the same Stater share a cache of committed storage.
type Stater struct {
	db    kv.Store
	cache *lru.ARCCache
	lock  sync.RWMutex
}

// NewStater create a new stater.
func NewStater(db kv.Store) *Stater {
	cache, _ := lru.NewARC(4096)
	return &Stater{db: db, cache: cache}
}

// NewState create a new state object on top of committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

func (s *Stater) get(k storageKey) ([]byte, error) {
	if v, ok := s.cache.Get(k); ok {
		return v.([]byte), nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	getter := storageBucket.NewGetter(s.db)
	v, err := getter.Get(k.bytes())
	if err != nil {
		if !getter.IsNotFound(err) {
			return nil, err
		}
		v = nil
	}
	s.cache.Add(k, v)
	return v, nil
}

func (s *Stater) commit(keys []storageKey, values map[storageKey][]byte) error {
	if len(keys) == 0 {
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	batch := s.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for _, k := range keys {
		v := values[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.bytes())
		} else {
			err = putter.Put(k.bytes(), v)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	for _, k := range keys {
		s.cache.Add(k, values[k])
	}
	return nil
}
