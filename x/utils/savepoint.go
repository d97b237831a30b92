package utils

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// Savepoint isolates all writes made by the wrapped handler and only
// persists them when the handler succeeds.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ harvest.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Checker) (*harvest.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *harvest.CheckResult
	err := Atomic(store, func(db harvest.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (*harvest.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *harvest.DeliverResult
	err := Atomic(store, func(db harvest.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// Atomic calls fn with a cache wrapped store. Changes are written back only
// if fn returns no error. Stores that cannot be cache wrapped are passed
// through unchanged.
func Atomic(store harvest.KVStore, fn func(harvest.KVStore) error) error {
	cstore, ok := store.(harvest.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
