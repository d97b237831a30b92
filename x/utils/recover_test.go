package utils

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/harvesttest/assert"
	"github.com/harvestnet/harvest/store"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := harvesttest.Context(5)
	db := store.MemStore()

	assert.Panics(t, func() { _, _ = h.Check(ctx, db, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, db, nil) })

	_, err := r.Check(ctx, db, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(ctx, db, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)
}

type panicHandler struct{}

var _ harvest.Handler = panicHandler{}

func (panicHandler) Check(harvest.Context, harvest.KVStore, harvest.Tx) (*harvest.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(harvest.Context, harvest.KVStore, harvest.Tx) (*harvest.DeliverResult, error) {
	panic("deliver")
}

func TestRecoveryLogsPanic(t *testing.T) {
	logger := newRecordingLogger()
	ctx := harvest.WithLogger(harvesttest.Context(5), logger)
	tx := &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "distribution/execute"}}

	res, err := NewRecovery().Deliver(ctx, store.MemStore(), tx, panicHandler{})
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Nil(t, res)

	entries := *logger.entries
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "error", entries[0].level)
	path, _ := value(entries[0].keyvals, "path")
	assert.Equal(t, "distribution/execute", path)
	p, _ := value(entries[0].keyvals, "panic")
	assert.Equal(t, "deliver", p)
}
