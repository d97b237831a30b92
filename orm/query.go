package orm

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// Register registers a query handler that returns raw models of this
// bucket. Returned keys are without the bucket prefix.
func (mb *modelBucket) Register(path string, r harvest.QueryRouter) {
	r.Register("/"+path, bucketQuery{mb: mb})
}

type bucketQuery struct {
	mb *modelBucket
}

// Query supports key and prefix queries.
func (q bucketQuery) Query(db harvest.ReadOnlyKVStore, mod string, data []byte) ([]harvest.Model, error) {
	switch mod {
	case harvest.KeyQueryMod:
		key := q.mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []harvest.Model{harvest.Pair(data, value)}, nil
	case harvest.PrefixQueryMod:
		start := q.mb.dbKey(data)
		it, err := db.Iterator(start, prefixRangeEnd(start))
		if err != nil {
			return nil, err
		}
		defer it.Release()

		var res []harvest.Model
		for {
			key, value, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				return res, nil
			}
			if err != nil {
				return nil, err
			}
			res = append(res, harvest.Pair(key[len(q.mb.prefix):], value))
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
