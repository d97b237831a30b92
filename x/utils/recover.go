package utils

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// Recovery converts a panic of any inner handler into an ErrPanic result.
// It must be the outermost decorator, otherwise a panic in a decorator
// above it aborts the block. The panic value is logged with the message
// path so that a faulty vote or distribution can be traced.
type Recovery struct{}

var _ harvest.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Checker) (res *harvest.CheckResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, panicked(ctx, tx, p)
		}
	}()
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (res *harvest.DeliverResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, panicked(ctx, tx, p)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

func panicked(ctx harvest.Context, tx harvest.Tx, p interface{}) error {
	path := "(missing)"
	if tx != nil {
		path = harvest.GetPath(tx)
	}
	harvest.GetLogger(ctx).Error("handler panic", "path", path, "panic", p)
	return errors.Wrapf(errors.ErrPanic, "%v", p)
}
