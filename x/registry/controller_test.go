package registry

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPendingChanges(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ctx := harvesttest.Context(1)

	a := harvesttest.NewCondition().Address()
	b := harvesttest.NewCondition().Address()
	c := harvesttest.NewCondition().Address()

	n, err := ctrl.ActiveRecipientCount(db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for _, ch := range []PendingChange{
		{Op: ChangeAdd, Recipient: a},
		{Op: ChangeAdd, Recipient: b},
		{Op: ChangeAdd, Recipient: a},    // duplicate, skipped
		{Op: ChangeRemove, Recipient: c}, // unknown, skipped
		{Op: ChangeAdd, Recipient: c},
		{Op: ChangeRemove, Recipient: b},
	} {
		_, err := ctrl.queue(db, ch.Op, ch.Recipient)
		require.NoError(t, err)
	}

	// Pending changes are not visible.
	n, err = ctrl.ActiveRecipientCount(db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	applied, err := ctrl.ApplyPendingChanges(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 4, applied)

	got, err := ctrl.ActiveRecipients(db)
	require.NoError(t, err)
	assert.Equal(t, []harvest.Address{a, c}, got)

	// The queue is drained.
	applied, err = ctrl.ApplyPendingChanges(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestQueueHandler(t *testing.T) {
	owner := harvesttest.NewCondition()
	recipient := harvesttest.NewCondition().Address()

	cases := map[string]struct {
		Msg            harvest.Msg
		Signer         harvest.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantQueued     int
	}{
		"owner can queue an addition": {
			Msg:        &QueueAddMsg{Recipient: recipient},
			Signer:     owner,
			WantQueued: 1,
		},
		"owner can queue a removal": {
			Msg:        &QueueRemoveMsg{Recipient: recipient},
			Signer:     owner,
			WantQueued: 1,
		},
		"only owner can queue": {
			Msg:            &QueueAddMsg{Recipient: recipient},
			Signer:         harvesttest.NewCondition(),
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"invalid recipient": {
			Msg:            &QueueAddMsg{Recipient: harvest.Address("x")},
			Signer:         owner,
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			require.NoError(t, gconf.Save(db, "registry", &Configuration{Owner: owner.Address()}))

			h := queueHandler{auth: &harvesttest.Auth{Signer: tc.Signer}, ctrl: NewController()}
			tx := &harvesttest.Tx{Msg: tc.Msg}
			ctx := harvesttest.Context(1)

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			if _, err := h.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			it, err := NewPendingBucket().PrefixScan(db, nil, false)
			require.NoError(t, err)
			defer it.Release()
			var queued int
			for {
				var ch PendingChange
				if _, err := it.Next(&ch); err != nil {
					break
				}
				queued++
			}
			assert.Equal(t, tc.WantQueued, queued)
		})
	}
}
