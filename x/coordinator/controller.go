package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// LockTimeoutReason is the failure reason recorded when an abandoned lock
// is taken over.
const LockTimeoutReason = "lock timeout"

// GetLock returns the current lock state. A lock that was never stored is
// idle.
func GetLock(db harvest.ReadOnlyKVStore) (*ExecutionLock, error) {
	var l ExecutionLock
	switch err := NewLockBucket().One(db, lockKey, &l); {
	case err == nil:
		return &l, nil
	case errors.ErrNotFound.Is(err):
		return &ExecutionLock{}, nil
	default:
		return nil, errors.Wrap(err, "load lock")
	}
}

// GetStats returns the execution statistics.
func GetStats(db harvest.ReadOnlyKVStore) (*ExecutionStats, error) {
	var s ExecutionStats
	switch err := NewStatsBucket().One(db, statsKey, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &ExecutionStats{}, nil
	default:
		return nil, errors.Wrap(err, "load stats")
	}
}

func saveLock(db harvest.KVStore, l *ExecutionLock) error {
	_, err := NewLockBucket().Put(db, lockKey, l)
	return err
}

func saveStats(db harvest.KVStore, s *ExecutionStats) error {
	_, err := NewStatsBucket().Put(db, statsKey, s)
	return err
}

// timedOut returns true if the lock is held for longer than the configured
// timeout.
func timedOut(ctx harvest.Context, db harvest.ReadOnlyKVStore, l *ExecutionLock) (bool, error) {
	if !l.Held {
		return false, nil
	}
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	now, err := harvest.BlockTime(ctx)
	if err != nil {
		return false, err
	}
	return harvest.AsUnixTime(now) > l.expiresAt(conf.Timeout), nil
}

// IsLocked returns true if the lock is held and did not time out.
func IsLocked(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, error) {
	l, err := GetLock(db)
	if err != nil {
		return false, err
	}
	expired, err := timedOut(ctx, db, l)
	if err != nil {
		return false, err
	}
	return l.Held && !expired, nil
}

// TryAcquire takes the lock for given holder. It returns false if the lock
// is held by anyone, including the same holder. A lock held for longer
// than the timeout is released first and that execution is counted as
// failed.
func TryAcquire(ctx harvest.Context, db harvest.KVStore, holder harvest.Address) (bool, error) {
	if err := holder.Validate(); err != nil {
		return false, errors.Wrap(err, "holder")
	}
	l, err := GetLock(db)
	if err != nil {
		return false, err
	}
	log := harvest.GetLogger(ctx).With("module", "coordinator")

	if l.Held {
		expired, err := timedOut(ctx, db, l)
		if err != nil {
			return false, err
		}
		if !expired {
			return false, nil
		}
		log.Info("lock timed out, force release", "holder", l.Holder, "acquired", l.AcquiredAt)
		if err := forceRelease(db, l); err != nil {
			return false, err
		}
	}

	now, err := harvest.BlockTime(ctx)
	if err != nil {
		return false, err
	}
	l.Held = true
	l.Holder = holder
	l.AcquiredAt = harvest.AsUnixTime(now)
	l.Status = StatusInProgress
	l.FailureReason = ""
	if err := saveLock(db, l); err != nil {
		return false, err
	}
	log.Debug("lock acquired", "holder", holder)
	return true, nil
}

// forceRelease releases a timed out lock and records the abandoned
// execution as a failure.
func forceRelease(db harvest.KVStore, l *ExecutionLock) error {
	l.Held = false
	l.Holder = nil
	l.Status = StatusFailed
	l.FailureReason = LockTimeoutReason
	if err := saveLock(db, l); err != nil {
		return err
	}
	return incrementStats(db, false, 0)
}

// Release frees the lock. Only the holder can release the lock before it
// times out. Anyone can release a timed out lock.
func Release(ctx harvest.Context, db harvest.KVStore, caller harvest.Address) error {
	l, err := GetLock(db)
	if err != nil {
		return err
	}
	if !l.Held {
		return errors.Wrap(errors.ErrState, "lock not held")
	}
	expired, err := timedOut(ctx, db, l)
	if err != nil {
		return err
	}
	if expired {
		if l.Status == StatusInProgress {
			return forceRelease(db, l)
		}
	} else if !l.Holder.Equals(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "only the holder can release the lock")
	}

	l.Held = false
	l.Holder = nil
	if l.Status == StatusInProgress {
		// Released without recording an outcome.
		l.Status = StatusIdle
	}
	return saveLock(db, l)
}

// RecordSuccess marks the current execution as completed.
func RecordSuccess(ctx harvest.Context, db harvest.KVStore) error {
	now, err := harvest.BlockTime(ctx)
	if err != nil {
		return err
	}
	l, err := GetLock(db)
	if err != nil {
		return err
	}
	l.Status = StatusCompleted
	l.FailureReason = ""
	if err := saveLock(db, l); err != nil {
		return err
	}
	return incrementStats(db, true, harvest.AsUnixTime(now))
}

// RecordFailure marks the current execution as failed.
func RecordFailure(ctx harvest.Context, db harvest.KVStore, reason string) error {
	l, err := GetLock(db)
	if err != nil {
		return err
	}
	l.Status = StatusFailed
	l.FailureReason = reason
	if err := saveLock(db, l); err != nil {
		return err
	}
	return incrementStats(db, false, 0)
}

func incrementStats(db harvest.KVStore, success bool, now harvest.UnixTime) error {
	s, err := GetStats(db)
	if err != nil {
		return err
	}
	s.TotalExecutions++
	if success {
		s.LastSuccessfulExecution = now
	} else {
		s.FailedExecutions++
	}
	return saveStats(db, s)
}
