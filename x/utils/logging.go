package utils

import (
	"time"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// Logging is a decorator that writes a single entry for every processed
// transaction, including its path, duration and the error code if any.
type Logging struct{}

var _ harvest.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as info and successes as debug. Rejected votes are
// common in the mempool and must not flood the error log.
func (Logging) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Checker) (*harvest.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, tx, start, msg, err, true)
	return res, err
}

// Deliver logs failures as error and successes as info.
func (Logging) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (*harvest.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, tx, start, msg, err, false)
	return res, err
}

func logResult(ctx harvest.Context, tx harvest.Tx, start time.Time, msg string, err error, check bool) {
	logger := harvest.GetLogger(ctx).With(
		"path", harvest.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)

	// An entry is written even for an empty message, the key values carry
	// the relevant information.
	switch {
	case err != nil && check:
		code, _ := errors.ABCIInfo(err, false)
		logger.Info(msg, "code", code, "err", err)
	case err != nil:
		code, _ := errors.ABCIInfo(err, false)
		logger.Error(msg, "code", code, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
