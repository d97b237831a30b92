package gconf

import (
	"context"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/harvesttest/assert"
	"github.com/harvestnet/harvest/store"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := harvesttest.NewCondition()

	cases := map[string]struct {
		// If Init is provided, initialize the database before running
		// handler code. Use nil to not provide initial state.
		Init           *myconfig
		Msg            harvest.Msg
		MsgConditions  []harvest.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error
		WantConfig     *myconfig
	}{
		"success": {
			Init: &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg: &myconfigMsg{
				Patch: &myconfig{Num: 333, Str: "boing!"},
			},
			MsgConditions: []harvest.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125},
			Msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			MsgConditions:  []harvest.Condition{harvesttest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"zero values are not updating the configuration": {
			Init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:           &myconfigMsg{Patch: &myconfig{Str: "only string"}},
			MsgConditions: []harvest.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "only string"},
		},
		"configuration must exist": {
			Msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			MsgConditions:  []harvest.Condition{cond},
			WantCheckErr:   errors.ErrNotFound,
			WantDeliverErr: errors.ErrNotFound,
		},
		"patch is required": {
			Init:           &myconfig{Owner: cond.Address()},
			Msg:            &myconfigMsg{},
			MsgConditions:  []harvest.Condition{cond},
			WantCheckErr:   errors.ErrState,
			WantDeliverErr: errors.ErrState,
		},
		"patched configuration must be valid": {
			Init:           &myconfig{Owner: cond.Address()},
			Msg:            &myconfigMsg{Patch: &myconfig{Num: -4}},
			MsgConditions:  []harvest.Condition{cond},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.Init != nil {
				assert.Nil(t, Save(db, "mypkg", tc.Init))
			}

			auth := &harvesttest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.MsgConditions...)
			h := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth)
			tx := &harvesttest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := h.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatalf("unexpected check error: %+v", err)
			}
			cache.Discard()

			if _, err := h.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatalf("unexpected deliver error: %+v", err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				assert.Nil(t, Load(db, "mypkg", &got))
				assert.Equal(t, *tc.WantConfig, got)
			}
		})
	}
}
