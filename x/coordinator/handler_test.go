package coordinator

import (
	"testing"
	"time"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/stretchr/testify/require"
)

func TestLockHandlers(t *testing.T) {
	alice := harvesttest.NewCondition()
	bob := harvesttest.NewCondition()

	cases := map[string]struct {
		// HeldBy if set, the lock is acquired before the test.
		HeldBy         harvest.Condition
		Msg            harvest.Msg
		Signer         harvest.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantHeld       bool
	}{
		"acquire free lock": {
			Msg:      &AcquireLockMsg{},
			Signer:   alice,
			WantHeld: true,
		},
		"acquire held lock": {
			HeldBy:         bob,
			Msg:            &AcquireLockMsg{},
			Signer:         alice,
			WantCheckErr:   errors.ErrLocked,
			WantDeliverErr: errors.ErrLocked,
			WantHeld:       true,
		},
		"release own lock": {
			HeldBy:   alice,
			Msg:      &ReleaseLockMsg{},
			Signer:   alice,
			WantHeld: false,
		},
		"release foreign lock": {
			HeldBy:         bob,
			Msg:            &ReleaseLockMsg{},
			Signer:         alice,
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantHeld:       true,
		},
		"release free lock": {
			Msg:            &ReleaseLockMsg{},
			Signer:         alice,
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t)
			if tc.HeldBy != nil {
				ok, err := TryAcquire(at(0), db, tc.HeldBy.Address())
				require.NoError(t, err)
				require.True(t, ok)
			}

			auth := &harvesttest.Auth{Signer: tc.Signer}
			var h harvest.Handler
			switch tc.Msg.(type) {
			case *AcquireLockMsg:
				h = AcquireLockHandler{auth: auth}
			case *ReleaseLockMsg:
				h = ReleaseLockHandler{auth: auth}
			}
			ctx := at(time.Second)
			tx := &harvesttest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()
			if _, err := h.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			locked, err := IsLocked(ctx, db)
			require.NoError(t, err)
			require.Equal(t, tc.WantHeld, locked)
		})
	}
}
