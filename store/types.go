package store

import "github.com/harvestnet/harvest"

// Move references for all storage types into this package for shorter names
// everywhere.

type (
	ReadOnlyKVStore  = harvest.ReadOnlyKVStore
	SetDeleter       = harvest.SetDeleter
	KVStore          = harvest.KVStore
	Iterator         = harvest.Iterator
	CacheableKVStore = harvest.CacheableKVStore
	KVCacheWrap      = harvest.KVCacheWrap
	CommitKVStore    = harvest.CommitKVStore
	CommitID         = harvest.CommitID
	Model            = harvest.Model
)
