package utils

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/harvesttest/assert"
	"github.com/harvestnet/harvest/store"
	"github.com/tendermint/tendermint/libs/common"
)

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		handler harvest.Handler
		tx      harvest.Tx
		wantErr *errors.Error
		tags    []common.KVPair
	}{
		"tags the message path": {
			handler: &harvesttest.Handler{},
			tx:      &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "voting/submit_vote"}},
			tags:    []common.KVPair{harvest.Tag(ActionKey, []byte("voting/submit_vote"))},
		},
		"keeps handler tags": {
			handler: &harvesttest.Handler{
				DeliverResult: harvest.DeliverResult{Tags: []common.KVPair{harvest.Tag("cycle", []byte("2"))}},
			},
			tx: &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "cycle/advance"}},
			tags: []common.KVPair{
				harvest.Tag("cycle", []byte("2")),
				harvest.Tag(ActionKey, []byte("cycle/advance")),
			},
		},
		"handler failure is not tagged": {
			handler: &harvesttest.Handler{DeliverErr: errors.ErrUnauthorized},
			tx:      &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "cycle/advance"}},
			wantErr: errors.ErrUnauthorized,
		},
		"broken transaction": {
			handler: &harvesttest.Handler{},
			tx:      &harvesttest.Tx{Err: errors.ErrMsg},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := NewActionTagger().Deliver(harvesttest.Context(1), store.MemStore(), tc.tx, tc.handler)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.tags, res.Tags)
			}
		})
	}
}
