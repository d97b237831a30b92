package automation

import (
	"encoding/binary"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/coordinator"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/distribution"
)

// Agent is a triggering adapter of a single automation network.
type Agent interface {
	Name() string
	// CheckReady never modifies the state. When a distribution is due, it
	// returns true and a payload that must be passed to Execute.
	CheckReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, []byte, error)
	Execute(ctx harvest.Context, db harvest.CacheableKVStore, payload []byte) (*Report, error)
}

// Distributor is the distribution engine driven by the agents.
type Distributor interface {
	IsReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, string, error)
	ExecuteDistribution(ctx harvest.Context, db harvest.KVStore) (*distribution.DistributionResult, error)
}

var _ Distributor = (*distribution.Engine)(nil)

// Executor runs distributions under the coordinator lock. It is shared by
// all agents.
type Executor struct {
	dist Distributor
}

// NewExecutor returns an executor of given distribution engine.
func NewExecutor(d Distributor) *Executor {
	return &Executor{dist: d}
}

// CheckReady returns the current cycle number as the payload if a
// distribution is due.
func (e *Executor) CheckReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, []byte, error) {
	ready, _, err := e.dist.IsReady(ctx, db)
	if err != nil || !ready {
		return false, nil, err
	}
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return false, nil, err
	}
	return true, orm.EncodeSequence(cur.Number), nil
}

// Execute acquires the lock for the agent, executes the distribution and
// releases the lock.
//
// An error is returned only if the execution was not attempted, for
// example because the lock is held or the payload is stale. A failed
// distribution is reported with the returned Report and all its changes
// are discarded, but the failure is recorded by the coordinator.
func (e *Executor) Execute(ctx harvest.Context, db harvest.CacheableKVStore, agent string, payload []byte) (*Report, error) {
	if len(payload) != 8 {
		return nil, errors.Wrapf(errors.ErrInput, "payload must be 8 bytes, got %d", len(payload))
	}
	want := binary.BigEndian.Uint64(payload)
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return nil, err
	}
	if cur.Number != want {
		return nil, errors.Wrapf(errors.ErrNotResolved, "stale payload for cycle %d, current cycle is %d", want, cur.Number)
	}

	holder := AgentAddress(agent)
	switch ok, err := coordinator.TryAcquire(ctx, db, holder); {
	case err != nil:
		return nil, errors.Wrap(err, "acquire lock")
	case !ok:
		return nil, errors.Wrap(errors.ErrLocked, "lock held")
	}

	height, _ := harvest.GetHeight(ctx)
	report := Report{Agent: agent, Cycle: cur.Number, Height: height}

	cache := db.CacheWrap()
	if _, err := e.dist.ExecuteDistribution(ctx, cache); err != nil {
		cache.Discard()
		report.Status = coordinator.StatusFailed
		report.Code, report.Reason = errors.ABCIInfo(err, false)
		if err := coordinator.RecordFailure(ctx, db, report.Reason); err != nil {
			return nil, errors.Wrap(err, "record failure")
		}
		harvest.GetLogger(ctx).With("module", "automation").Error("distribution failed",
			"agent", agent, "cycle", cur.Number, "err", err)
	} else {
		if err := cache.Write(); err != nil {
			return nil, errors.Wrap(err, "write distribution")
		}
		report.Status = coordinator.StatusCompleted
		if err := coordinator.RecordSuccess(ctx, db); err != nil {
			return nil, errors.Wrap(err, "record success")
		}
	}

	if err := coordinator.Release(ctx, db, holder); err != nil {
		return nil, errors.Wrap(err, "release lock")
	}
	if _, err := NewReportBucket().Put(db, nil, &report); err != nil {
		return nil, errors.Wrap(err, "save report")
	}
	return &report, nil
}
