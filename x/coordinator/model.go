package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// LockStatus is the outcome of the last execution guarded by the lock.
type LockStatus int32

const (
	StatusIdle LockStatus = iota
	StatusInProgress
	StatusCompleted
	StatusFailed
)

func (s LockStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	lockKey  = []byte("lock")
	statsKey = []byte("stats")
)

// ExecutionLock is the singleton mutual exclusion lock.
type ExecutionLock struct {
	Held          bool
	Holder        harvest.Address
	AcquiredAt    harvest.UnixTime
	Status        LockStatus
	FailureReason string
}

var _ orm.Model = (*ExecutionLock)(nil)

func (l *ExecutionLock) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(l) }
func (l *ExecutionLock) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, l) }

func (l *ExecutionLock) Validate() error {
	var errs error
	if l.Held {
		errs = errors.AppendField(errs, "Holder", l.Holder.Validate())
		errs = errors.AppendField(errs, "AcquiredAt", l.AcquiredAt.Validate())
	} else if len(l.Holder) != 0 {
		errs = errors.Append(errs, errors.Field("Holder", errors.ErrState, "released lock has a holder"))
	}
	if l.Status < StatusIdle || l.Status > StatusFailed {
		errs = errors.Append(errs, errors.Field("Status", errors.ErrModel, "unknown status %d", l.Status))
	}
	return errs
}

// expiresAt returns the time after which a held lock can be taken over.
func (l *ExecutionLock) expiresAt(timeout harvest.UnixDuration) harvest.UnixTime {
	return l.AcquiredAt.Add(timeout.Duration())
}

// NewLockBucket returns a bucket holding the lock singleton.
func NewLockBucket() orm.ModelBucket {
	return orm.NewModelBucket("coord_lock", &ExecutionLock{})
}

// ExecutionStats counts executions. Counters never decrease.
type ExecutionStats struct {
	TotalExecutions         uint64
	FailedExecutions        uint64
	LastSuccessfulExecution harvest.UnixTime
}

var _ orm.Model = (*ExecutionStats)(nil)

func (s *ExecutionStats) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(s) }
func (s *ExecutionStats) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, s) }

func (s *ExecutionStats) Validate() error {
	if s.FailedExecutions > s.TotalExecutions {
		return errors.Field("FailedExecutions", errors.ErrModel, "greater than total")
	}
	return nil
}

// NewStatsBucket returns a bucket holding the statistics singleton.
func NewStatsBucket() orm.ModelBucket {
	return orm.NewModelBucket("coord_stats", &ExecutionStats{})
}
