// Copyright (c) 2025 The Roost developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/roostlabs/roost/kv"
)

var _ kv.GetPutCloser = (*LevelDB)(nil)

// Options options for creating level db instance.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
	ReadCacheMB            int // size of the in-process read-through cache, 0 disables it
}

var writeOpt = opt.WriteOptions{}
var readOpt = opt.ReadOptions{}

// LevelDB wraps level db impls.
type LevelDB struct {
	db    *leveldb.DB
	cache *frontCache
}

// New create a persistent level db instance.
// Create an empty one if not exists, or open if already there.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "new persistent level db")
	}
	return openLevelDB(stg, opts)
}

// NewMem create a level db in memory.
func NewMem() (*LevelDB, error) {
	return openLevelDB(storage.NewMemStorage(), Options{})
}

func openLevelDB(stg storage.Storage, opts Options) (*LevelDB, error) {
	cacheSize := opts.CacheSize
	if cacheSize < 16 {
		cacheSize = 16
	}

	openFilesCacheCapacity := opts.OpenFilesCacheCapacity
	if openFilesCacheCapacity < 16 {
		openFilesCacheCapacity = 16
	}

	db, err := leveldb.Open(stg, &opt.Options{
		OpenFilesCacheCapacity: openFilesCacheCapacity,
		BlockCacheCapacity:     cacheSize / 2 * opt.MiB,
		WriteBuffer:            cacheSize / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})

	if err != nil {
		return nil, errors.Wrap(err, "open level db")
	}
	return &LevelDB{db: db, cache: newFrontCache(opts.ReadCacheMB)}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

// Get retrieve value for given key.
// It returns an error if key not found. The error can be checked via IsNotFound.
func (ldb *LevelDB) Get(key []byte) (value []byte, err error) {
	if ldb.cache != nil {
		if v, ok := ldb.cache.Get(key); ok {
			return v, nil
		}
		v, err := ldb.db.Get(key, &readOpt)
		if err != nil {
			return nil, err
		}
		ldb.cache.Set(key, v)
		return v, nil
	}
	return ldb.db.Get(key, &readOpt)
}

// Has returns whether a key exists.
func (ldb *LevelDB) Has(key []byte) (bool, error) {
	if ldb.cache != nil && ldb.cache.Has(key) {
		return true, nil
	}
	return ldb.db.Has(key, &readOpt)
}

// Put save value fo give key.
func (ldb *LevelDB) Put(key, value []byte) error {
	if err := ldb.db.Put(key, value, &writeOpt); err != nil {
		return err
	}
	if ldb.cache != nil {
		ldb.cache.Set(key, value)
	}
	return nil
}

// Delete deletes the give key and its value.
func (ldb *LevelDB) Delete(key []byte) error {
	if err := ldb.db.Delete(key, &writeOpt); err != nil {
		return err
	}
	if ldb.cache != nil {
		ldb.cache.Del(key)
	}
	return nil
}

// Close close the level db.
// Later operations will all fail.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// Snapshot takes a frozen read view of the store.
// Reads on the snapshot bypass the front cache.
func (ldb *LevelDB) Snapshot() (kv.Snapshot, error) {
	s, err := ldb.db.GetSnapshot()
	if err != nil {
		return nil, errors.Wrap(err, "get snapshot")
	}
	return &levelDBSnapshot{s}, nil
}

// NewBatch create a batch for writing ops.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &levelDBBatch{
		ldb,
		&leveldb.Batch{},
		nil,
	}
}

// NewIterator create a iterator by range.
func (ldb *LevelDB) NewIterator(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{
		Start: r.From,
		Limit: r.To,
	}, &readOpt)
}

//////

// levelDBSnapshot wraps a leveldb snapshot.
type levelDBSnapshot struct {
	snapshot *leveldb.Snapshot
}

func (s *levelDBSnapshot) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

func (s *levelDBSnapshot) Get(key []byte) ([]byte, error) {
	return s.snapshot.Get(key, &readOpt)
}

func (s *levelDBSnapshot) Has(key []byte) (bool, error) {
	return s.snapshot.Has(key, &readOpt)
}

func (s *levelDBSnapshot) NewIterator(r kv.Range) kv.Iterator {
	return s.snapshot.NewIterator(&util.Range{
		Start: r.From,
		Limit: r.To,
	}, &readOpt)
}

func (s *levelDBSnapshot) Release() {
	s.snapshot.Release()
}

//////

type batchOp struct {
	del        bool
	key, value []byte
}

// levelDBBatch wraps batch operations.
type levelDBBatch struct {
	ldb   *LevelDB
	batch *leveldb.Batch
	ops   []batchOp
}

// Put adds a put operation.
func (b *levelDBBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	if b.ldb.cache != nil {
		b.ops = append(b.ops, batchOp{false, append([]byte(nil), key...), append([]byte(nil), value...)})
	}
	return nil
}

// Delete adds a delete operation.
func (b *levelDBBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	if b.ldb.cache != nil {
		b.ops = append(b.ops, batchOp{true, append([]byte(nil), key...), nil})
	}
	return nil
}

func (b *levelDBBatch) NewBatch() kv.Batch {
	return &levelDBBatch{
		b.ldb,
		&leveldb.Batch{},
		nil,
	}
}

// Len returns ops in the batch.
func (b *levelDBBatch) Len() int {
	return b.batch.Len()
}

// Write perform all ops in this batch.
func (b *levelDBBatch) Write() error {
	if err := b.ldb.db.Write(b.batch, &writeOpt); err != nil {
		return err
	}
	if b.ldb.cache != nil {
		for _, op := range b.ops {
			if op.del {
				b.ldb.cache.Del(op.key)
			} else {
				b.ldb.cache.Set(op.key, op.value)
			}
		}
	}
	return nil
}
