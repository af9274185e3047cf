// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	return append([]byte(b), k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

type bucketGetter struct {
	bucket Bucket
	src    Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.bucket.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.bucket.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	bucket Bucket
	src    Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.bucket.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.bucket.key(key)) }
