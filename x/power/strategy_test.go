package power

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/store"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	available := Available(cash.NewController())

	_, err := Compose(nil, available)
	assert.True(t, errors.ErrNoStrategies.Is(err))

	_, err = Compose([]string{"balance", "nope"}, available)
	assert.True(t, errors.ErrInput.Is(err))

	db := store.MemStore()
	bank := cash.NewController()
	alice := harvesttest.NewCondition().Address()
	bob := harvesttest.NewCondition().Address()
	require.NoError(t, bank.IssueCoins(harvesttest.Context(1), db, alice, 300))
	require.NoError(t, bank.IssueCoins(harvesttest.Context(1), db, bob, 200))
	require.NoError(t, delegate(db, &Delegation{Delegator: bob, Delegate: alice}))

	s, err := Compose([]string{Balance, Delegated}, Available(bank))
	require.NoError(t, err)
	p, err := s.CurrentPower(harvesttest.Context(2), db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), p)

	// The delegated balance is counted once, for the delegate only.
	p, err = s.CurrentPower(harvesttest.Context(2), db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p)

	require.NoError(t, undelegate(db, bob))
	p, err = s.CurrentPower(harvesttest.Context(2), db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), p)
	p, err = s.CurrentPower(harvesttest.Context(2), db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), p)
}

func TestDelegation(t *testing.T) {
	db := store.MemStore()
	bank := cash.NewController()
	ctx := harvesttest.Context(1)
	a := harvesttest.NewCondition().Address()
	b := harvesttest.NewCondition().Address()
	c := harvesttest.NewCondition().Address()
	require.NoError(t, bank.IssueCoins(ctx, db, a, 10))
	require.NoError(t, bank.IssueCoins(ctx, db, b, 20))

	s := DelegatedStrategy{bank: bank}

	require.NoError(t, delegate(db, &Delegation{Delegator: a, Delegate: c}))
	require.NoError(t, delegate(db, &Delegation{Delegator: b, Delegate: c}))
	p, err := s.CurrentPower(ctx, db, c)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), p)

	// Redelegation moves the power.
	require.NoError(t, delegate(db, &Delegation{Delegator: a, Delegate: b}))
	p, err = s.CurrentPower(ctx, db, c)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), p)
	p, err = s.CurrentPower(ctx, db, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), p)

	require.NoError(t, undelegate(db, b))
	p, err = s.CurrentPower(ctx, db, c)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p)

	err = undelegate(db, b)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = delegate(db, &Delegation{Delegator: a, Delegate: a})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestTimeWeightedAverage(t *testing.T) {
	cases := map[string]struct {
		Checkpoints []cash.Checkpoint
		Height      int64
		Window      int64
		Want        uint64
		WantErr     *errors.Error
	}{
		"no history": {
			Height: 10,
			Window: 5,
			Want:   0,
		},
		"balance held for the whole window": {
			Checkpoints: []cash.Checkpoint{{Height: 1, Amount: 100}},
			Height:      10,
			Window:      5,
			Want:        100,
		},
		"balance received in the middle of the window": {
			// Window covers blocks 6..10, balance held in 9 and 10.
			Checkpoints: []cash.Checkpoint{{Height: 9, Amount: 100}},
			Height:      10,
			Window:      5,
			Want:        40,
		},
		"balance changes within the window": {
			// Blocks 6,7: 100; 8,9: 400; 10: 0
			Checkpoints: []cash.Checkpoint{
				{Height: 2, Amount: 100},
				{Height: 8, Amount: 400},
				{Height: 10, Amount: 0},
			},
			Height: 10,
			Window: 5,
			Want:   200,
		},
		"future checkpoints are ignored": {
			Checkpoints: []cash.Checkpoint{
				{Height: 2, Amount: 100},
				{Height: 11, Amount: 900},
			},
			Height: 10,
			Window: 5,
			Want:   100,
		},
		"checkpoint at the first window block": {
			Checkpoints: []cash.Checkpoint{
				{Height: 2, Amount: 100},
				{Height: 6, Amount: 50},
			},
			Height: 10,
			Window: 5,
			Want:   50,
		},
		"invalid window": {
			Height:  10,
			Window:  0,
			WantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := timeWeightedAverage(tc.Checkpoints, tc.Height, tc.Window)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestTimeWeightedStrategy(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, gconf.Save(db, "power", &Configuration{Window: 4}))
	bank := cash.NewController()
	alice := harvesttest.NewCondition().Address()

	require.NoError(t, bank.IssueCoins(harvesttest.Context(9), db, alice, 400))

	var s Strategy = TimeWeightedStrategy{}
	p, err := s.CurrentPower(harvesttest.Context(10), db, alice)
	require.NoError(t, err)
	// Window covers 7..10, balance held in 9 and 10.
	assert.Equal(t, uint64(200), p)

	require.NoError(t, delegate(db, &Delegation{Delegator: alice, Delegate: harvesttest.NewCondition().Address()}))
	p, err = s.CurrentPower(harvesttest.Context(10), db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p)
}

func TestDelegateHandler(t *testing.T) {
	alice := harvesttest.NewCondition()
	bob := harvesttest.NewCondition()

	cases := map[string]struct {
		Msg            harvest.Msg
		Signer         harvest.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantDelegators int
	}{
		"delegate": {
			Msg:            &DelegateMsg{Delegate: bob.Address()},
			Signer:         alice,
			WantDelegators: 1,
		},
		"delegate to self": {
			Msg:            &DelegateMsg{Delegate: alice.Address()},
			Signer:         alice,
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
		},
		"signature required": {
			Msg:            &DelegateMsg{Delegate: bob.Address()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"undelegate without delegation": {
			Msg:            &UndelegateMsg{},
			Signer:         alice,
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			auth := &harvesttest.Auth{}
			if tc.Signer != nil {
				auth.Signer = tc.Signer
			}
			var h harvest.Handler
			switch tc.Msg.(type) {
			case *DelegateMsg:
				h = DelegateHandler{auth: auth}
			case *UndelegateMsg:
				h = UndelegateHandler{auth: auth}
			}
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

			got, err := Delegators(db, bob.Address())
			require.NoError(t, err)
			assert.Len(t, got, tc.WantDelegators)
		})
	}
}
