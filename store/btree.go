package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/harvestnet/harvest/errors"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// MemStore returns a simple implementation useful for tests.
// There is no persistence here: the data lives in the cache layer and
// calling Write on it discards everything.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, nil)
}

// BTreeCacheWrap places a btree cache over a KVStore. All writes are kept in
// the cache until Write replays them on the parent store.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back KVStore
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
//
// free may be nil, but set to an existing list to reuse it for memory
// savings
func NewBTreeCacheWrap(kv KVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
	}
}

// CacheWrap layers another BTree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// Write syncs with the underlying store and then cleans up.
func (b BTreeCacheWrap) Write() error {
	var err error
	b.bt.Ascend(func(i btree.Item) bool {
		it := i.(item)
		if it.deleted {
			err = b.back.Delete(it.key)
		} else {
			err = b.back.Set(it.key, it.value)
		}
		return err == nil
	})
	b.Discard()
	return errors.Wrap(err, "write cache")
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set writes to the BTree.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, value: value})
	return nil
}

// Delete marks the key as removed.
func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	b.bt.ReplaceOrInsert(item{key: key, deleted: true})
	return nil
}

// Get reads from the cache, falling back to the parent store.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	if res := b.bt.Get(item{key: key}); res != nil {
		it := res.(item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return b.back.Get(key)
}

// Has returns true if the key exists in the cache or in the parent store.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	val, err := b.Get(key)
	return val != nil, err
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator over a domain of keys in descending order. End is
// exclusive.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(reverseModels(models)), nil
}

// merged returns all models within the range, with cached changes applied
// on top of the parent state, in ascending order.
func (b BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	it, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	parent, err := ReadAll(it)
	if err != nil {
		return nil, err
	}

	var cached []item
	collect := func(i btree.Item) bool {
		cached = append(cached, i.(item))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(item{key: end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(item{key: start}, collect)
	default:
		b.bt.AscendRange(item{key: start}, item{key: end}, collect)
	}

	res := make([]Model, 0, len(parent)+len(cached))
	var p, c int
	for p < len(parent) || c < len(cached) {
		switch {
		case c == len(cached):
			res = append(res, parent[p])
			p++
		case p == len(parent):
			if !cached[c].deleted {
				res = append(res, cached[c].model())
			}
			c++
		default:
			switch cmp := bytes.Compare(parent[p].Key, cached[c].key); {
			case cmp < 0:
				res = append(res, parent[p])
				p++
			case cmp > 0:
				if !cached[c].deleted {
					res = append(res, cached[c].model())
				}
				c++
			default:
				// Cache overwrites the parent value.
				if !cached[c].deleted {
					res = append(res, cached[c].model())
				}
				p++
				c++
			}
		}
	}
	return res, nil
}

// item is a single change kept in the btree.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = item{}

// Less is required by btree.Item.
func (i item) Less(other btree.Item) bool {
	return bytes.Compare(i.key, other.(item).key) < 0
}

func (i item) model() Model {
	return Model{Key: i.key, Value: i.value}
}

// EmptyKVStore is a store that holds no data. Writes are dropped.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }
func (EmptyKVStore) Has(key []byte) (bool, error)   { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error    { return nil }
func (EmptyKVStore) Delete(key []byte) error        { return nil }

func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
