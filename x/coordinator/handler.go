package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const lockCost = 50

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator) {
	r.Handle(&AcquireLockMsg{}, AcquireLockHandler{auth: auth})
	r.Handle(&ReleaseLockMsg{}, ReleaseLockHandler{auth: auth})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("coordinator", &Configuration{}, auth))
}

// RegisterQuery will register the lock as "/lock" and the statistics as
// "/lockstats".
func RegisterQuery(qr harvest.QueryRouter) {
	NewLockBucket().Register("lock", qr)
	NewStatsBucket().Register("lockstats", qr)
}

// AcquireLockHandler acquires the lock for the main signer.
type AcquireLockHandler struct {
	auth x.Authenticator
}

var _ harvest.Handler = AcquireLockHandler{}

func (h AcquireLockHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: lockCost}, nil
}

func (h AcquireLockHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	holder, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ok, err := TryAcquire(ctx, db, holder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrap(errors.ErrLocked, "lock held")
	}
	return &harvest.DeliverResult{}, nil
}

func (h AcquireLockHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (harvest.Address, error) {
	var msg AcquireLockMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	locked, err := IsLocked(ctx, db)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, errors.Wrap(errors.ErrLocked, "lock held")
	}
	return signer.Address(), nil
}

// ReleaseLockHandler releases the lock held by the main signer.
type ReleaseLockHandler struct {
	auth x.Authenticator
}

var _ harvest.Handler = ReleaseLockHandler{}

func (h ReleaseLockHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	// Check runs on a cache that is discarded.
	if err := Release(ctx, db, caller); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: lockCost}, nil
}

func (h ReleaseLockHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := Release(ctx, db, caller); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h ReleaseLockHandler) validate(ctx harvest.Context, tx harvest.Tx) (harvest.Address, error) {
	var msg ReleaseLockMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}
