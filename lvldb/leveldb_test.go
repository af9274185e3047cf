// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldFingerRWA/goldfinger/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		ret, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, ret)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBatchAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("a1"), []byte("x")))
	require.NoError(t, batch.Put([]byte("a2"), []byte("y")))
	require.NoError(t, batch.Put([]byte("b1"), []byte("z")))
	require.NoError(t, batch.Delete([]byte("a2")))
	assert.Equal(t, 4, batch.Len())

	_, err = db.Get([]byte("a1"))
	assert.True(t, db.IsNotFound(err), "batch must not be visible before write")

	require.NoError(t, batch.Write())

	iter := db.Iterate(kv.Range{Start: []byte("a"), Limit: []byte("b")})
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a1"}, keys)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	batch := db.NewBatch()
	for i := range 100 {
		require.NoError(t, batch.Put([]byte{byte(i)}, make([]byte, 1024)))
	}
	require.NoError(t, batch.Write())
	require.NoError(t, db.NewBatch().Write())
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	value, err := db.Get([]byte{99})
	require.NoError(t, err)
	assert.Len(t, value, 1024)

	size, err := db.Size()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, size, int64(0))
}
