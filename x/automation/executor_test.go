package automation

import (
	"encoding/json"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/store"
	"github.com/harvestnet/harvest/x/coordinator"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/distribution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markerKey = []byte("_test:marker")

// stubDistributor writes a marker before returning the configured error,
// so that tests can check whether changes were discarded.
type stubDistributor struct {
	ready    bool
	err      error
	executed int
}

func (d *stubDistributor) IsReady(harvest.Context, harvest.ReadOnlyKVStore) (bool, string, error) {
	if !d.ready {
		return false, "not yet", nil
	}
	return true, "", nil
}

func (d *stubDistributor) ExecuteDistribution(ctx harvest.Context, db harvest.KVStore) (*distribution.DistributionResult, error) {
	d.executed++
	if err := db.Set(markerKey, []byte("x")); err != nil {
		return nil, err
	}
	if d.err != nil {
		return nil, d.err
	}
	return &distribution.DistributionResult{}, nil
}

func newTestStore(t testing.TB, ticker bool) harvest.CacheableKVStore {
	t.Helper()
	genesis := map[string]interface{}{
		"conf": map[string]interface{}{
			"coordinator": map[string]interface{}{"timeout": "1m"},
			"cycle":       map[string]interface{}{"length": 10},
			"automation":  map[string]interface{}{"ticker": ticker},
		},
	}
	raw, err := json.Marshal(genesis)
	require.NoError(t, err)
	var opts harvest.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	ctx := harvesttest.Context(1)
	for _, ini := range []harvest.Initializer{coordinator.Initializer{}, cycle.Initializer{}, Initializer{}} {
		require.NoError(t, ini.FromGenesis(ctx, opts, db))
	}
	return db
}

func hasMarker(t testing.TB, db harvest.ReadOnlyKVStore) bool {
	t.Helper()
	ok, err := db.Has(markerKey)
	require.NoError(t, err)
	return ok
}

func TestSuccessfulExecution(t *testing.T) {
	db := newTestStore(t, false)
	dist := &stubDistributor{ready: true}
	agent := NewKeeperAgent("keeper", NewExecutor(dist))
	ctx := harvesttest.Context(20)

	ready, payload, err := agent.CheckReady(ctx, db)
	require.NoError(t, err)
	require.True(t, ready)
	assert.Equal(t, orm.EncodeSequence(1), payload)

	report, err := agent.Execute(ctx, db, payload)
	require.NoError(t, err)
	assert.Equal(t, coordinator.StatusCompleted, report.Status)
	assert.Equal(t, uint32(0), report.Code)
	assert.Equal(t, "keeper", report.Agent)
	assert.True(t, hasMarker(t, db))

	lock, err := coordinator.GetLock(db)
	require.NoError(t, err)
	assert.False(t, lock.Held)
	assert.Equal(t, coordinator.StatusCompleted, lock.Status)

	stats, err := coordinator.GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalExecutions)
	assert.Equal(t, uint64(0), stats.FailedExecutions)
}

func TestFailedExecutionIsRecorded(t *testing.T) {
	db := newTestStore(t, false)
	dist := &stubDistributor{ready: true, err: errors.Wrap(errors.ErrInsufficientSurplus, "vault drained")}
	agent := NewKeeperAgent("keeper", NewExecutor(dist))
	ctx := harvesttest.Context(20)

	_, payload, err := agent.CheckReady(ctx, db)
	require.NoError(t, err)
	report, err := agent.Execute(ctx, db, payload)
	require.NoError(t, err)

	assert.Equal(t, coordinator.StatusFailed, report.Status)
	assert.Equal(t, errors.ErrInsufficientSurplus.ABCICode(), report.Code)
	assert.Contains(t, report.Reason, "vault drained")
	// Changes made by the failed distribution are discarded.
	assert.False(t, hasMarker(t, db))

	cur, err := cycle.CurrentCycle(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cur.Number)

	lock, err := coordinator.GetLock(db)
	require.NoError(t, err)
	assert.False(t, lock.Held)
	assert.Equal(t, coordinator.StatusFailed, lock.Status)
	assert.Equal(t, report.Reason, lock.FailureReason)

	stats, err := coordinator.GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalExecutions)
	assert.Equal(t, uint64(1), stats.FailedExecutions)

	var stored Report
	require.NoError(t, NewReportBucket().One(db, harvesttest.SequenceID(1), &stored))
	assert.Equal(t, *report, stored)
}

func TestExecutionNotAttempted(t *testing.T) {
	cases := map[string]struct {
		lockedBy harvest.Address
		payload  []byte
		wantErr  *errors.Error
	}{
		"lock held by another agent": {
			lockedBy: AgentAddress("other"),
			payload:  orm.EncodeSequence(1),
			wantErr:  errors.ErrLocked,
		},
		"lock held by the same agent": {
			lockedBy: AgentAddress("keeper"),
			payload:  orm.EncodeSequence(1),
			wantErr:  errors.ErrLocked,
		},
		"stale payload": {
			payload: orm.EncodeSequence(0),
			wantErr: errors.ErrNotResolved,
		},
		"malformed payload": {
			payload: []byte{1},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t, false)
			dist := &stubDistributor{ready: true}
			agent := NewKeeperAgent("keeper", NewExecutor(dist))
			ctx := harvesttest.Context(20)
			if tc.lockedBy != nil {
				ok, err := coordinator.TryAcquire(ctx, db, tc.lockedBy)
				require.NoError(t, err)
				require.True(t, ok)
			}

			_, err := agent.Execute(ctx, db, tc.payload)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			assert.Equal(t, 0, dist.executed)
		})
	}
}

func TestCompetingAgents(t *testing.T) {
	db := newTestStore(t, false)
	dist := &stubDistributor{ready: true}
	exec := NewExecutor(dist)
	first := NewKeeperAgent("first", exec)
	second := NewTickerAgent("second", exec)
	ctx := harvesttest.Context(20)

	// An agent holding the lock across transactions.
	ok, err := coordinator.TryAcquire(ctx, db, AgentAddress(first.Name()))
	require.NoError(t, err)
	require.True(t, ok)

	_, payload, err := second.CheckReady(ctx, db)
	require.NoError(t, err)
	_, err = second.Execute(ctx, db, payload)
	require.True(t, errors.ErrLocked.Is(err), "%+v", err)

	// After the timeout the lock is recovered.
	later := harvesttest.Context(200)
	report, err := second.Execute(later, db, payload)
	require.NoError(t, err)
	assert.Equal(t, coordinator.StatusCompleted, report.Status)
	assert.Equal(t, 1, dist.executed)

	stats, err := coordinator.GetStats(db)
	require.NoError(t, err)
	// The abandoned execution counts as a failure.
	assert.Equal(t, uint64(2), stats.TotalExecutions)
	assert.Equal(t, uint64(1), stats.FailedExecutions)
}
