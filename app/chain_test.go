package app

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/harvesttest/assert"
	"github.com/harvestnet/harvest/store"
	"github.com/harvestnet/harvest/x/utils"
)

func TestChain(t *testing.T) {
	var (
		d1, d2, d3 harvesttest.Decorator
		h          harvesttest.Handler
	)
	var nilDecorator *harvesttest.Decorator

	stack := ChainDecorators(
		&d1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nilDecorator,
		&d2,
		panicAtHeight(6),
		&d3,
	).WithHandler(&h)

	db := store.MemStore()
	tx := &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "test/chain"}}

	_, err := stack.Check(harvesttest.Context(4), db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(harvesttest.Context(4), db, tx)
	assert.Nil(t, err)

	assert.Equal(t, 1, d1.CheckCallCount())
	assert.Equal(t, 1, d3.DeliverCallCount())
	assert.Equal(t, 2, h.CallCount())

	_, err = stack.Check(harvesttest.Context(8), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(harvesttest.Context(8), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)

	// The panic happens below d2, so d3 and the handler are never reached.
	assert.Equal(t, 2, d1.CheckCallCount())
	assert.Equal(t, 2, d2.DeliverCallCount())
	assert.Equal(t, 1, d3.DeliverCallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainIsExtendable(t *testing.T) {
	var d1, d2 harvesttest.Decorator
	base := ChainDecorators(&d1)
	extended := base.Chain(&d2)

	var h harvesttest.Handler
	tx := &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "test/chain"}}
	_, err := base.WithHandler(&h).Deliver(harvesttest.Context(1), store.MemStore(), tx)
	assert.Nil(t, err)
	_, err = extended.WithHandler(&h).Deliver(harvesttest.Context(1), store.MemStore(), tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, d1.DeliverCallCount())
	assert.Equal(t, 1, d2.DeliverCallCount())
}

// panicAtHeight panics if the block height is at least h.
type panicAtHeight int64

func (p panicAtHeight) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Checker) (*harvest.CheckResult, error) {
	if h, _ := harvest.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Check(ctx, db, tx)
}

func (p panicAtHeight) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (*harvest.DeliverResult, error) {
	if h, _ := harvest.GetHeight(ctx); h >= int64(p) {
		panic("too high")
	}
	return next.Deliver(ctx, db, tx)
}
