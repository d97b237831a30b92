package voting

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchOf(votes ...*Vote) *BatchSubmitVoteMsg {
	var msg BatchSubmitVoteMsg
	for _, v := range votes {
		msg.Voters = append(msg.Voters, v.Voter)
		msg.Points = append(msg.Points, PointList{Values: v.Points})
		msg.Nonces = append(msg.Nonces, v.Nonce)
		msg.Signatures = append(msg.Signatures, v.Signature)
	}
	return &msg
}

func TestBatchPartialSuccess(t *testing.T) {
	alice, bob := harvesttest.NewKey(), harvesttest.NewKey()
	engine := newTestEngine(map[*crypto.PrivateKey]uint64{alice: 1000, bob: 500})
	db := newTestStore(t)
	ctx := harvesttest.Context(5)

	msg := batchOf(
		signedVote(t, alice, []uint64{100, 0, 0}, 1),
		// Replays the nonce of the first entry.
		signedVote(t, alice, []uint64{0, 100, 0}, 1),
		signedVote(t, bob, []uint64{0, 50, 50}, 9),
	)

	h := BatchSubmitVoteHandler{engine: engine}
	tx := &harvesttest.Tx{Msg: msg}
	_, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	res, err := h.Deliver(ctx, db, tx)
	require.NoError(t, err)

	var result BatchResult
	require.NoError(t, result.Unmarshal(res.Data))
	require.Len(t, result.Entries, 3)
	assert.True(t, result.Entries[0].Accepted)
	assert.False(t, result.Entries[1].Accepted)
	assert.Equal(t, errors.ErrNonceUsed.ABCICode(), result.Entries[1].Code)
	assert.NotEmpty(t, result.Entries[1].Reason)
	assert.True(t, result.Entries[2].Accepted)

	tally, err := GetTally(db, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{100000, 25000, 25000}, tally.Allocations)
}

func TestBatchRejectedAsWhole(t *testing.T) {
	keys := []*crypto.PrivateKey{harvesttest.NewKey(), harvesttest.NewKey(), harvesttest.NewKey(), harvesttest.NewKey()}
	engine := newTestEngine(nil)

	var votes []*Vote
	for i, k := range keys {
		votes = append(votes, signedVote(t, k, []uint64{1, 1, 1}, uint64(i)))
	}

	mismatch := batchOf(votes[:2]...)
	mismatch.Nonces = mismatch.Nonces[:1]

	cases := map[string]struct {
		msg     harvest.Msg
		wantErr *errors.Error
	}{
		"array length mismatch": {
			msg:     mismatch,
			wantErr: errors.ErrArrayLengthMismatch,
		},
		"batch too large": {
			msg:     batchOf(votes...),
			wantErr: errors.ErrBatchTooLarge,
		},
		"empty batch": {
			msg:     &BatchSubmitVoteMsg{},
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := newTestStore(t)
			h := BatchSubmitVoteHandler{engine: engine}
			tx := &harvesttest.Tx{Msg: tc.msg}
			_, err := h.Check(harvesttest.Context(5), db, tx)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			_, err = h.Deliver(harvesttest.Context(5), db, tx)
			require.True(t, tc.wantErr.Is(err), "%+v", err)

			agg, err := GetAggregates(db, 1)
			require.NoError(t, err)
			assert.Equal(t, uint64(0), agg.VoteCount)
		})
	}
}

func TestSubmitVoteHandler(t *testing.T) {
	voter := harvesttest.NewKey()
	engine := newTestEngine(map[*crypto.PrivateKey]uint64{voter: 1000})
	db := newTestStore(t)
	ctx := harvesttest.Context(5)
	h := SubmitVoteHandler{engine: engine}

	v := signedVote(t, voter, []uint64{100, 0, 0}, 5)
	tx := &harvesttest.Tx{Msg: &SubmitVoteMsg{Voter: v.Voter, Points: v.Points, Nonce: v.Nonce, Signature: v.Signature}}

	_, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	// Check does not consume the nonce.
	_, err = h.Check(ctx, db, tx)
	require.NoError(t, err)

	res, err := h.Deliver(ctx, db, tx)
	require.NoError(t, err)
	tags := make(map[string]string)
	for _, kv := range res.Tags {
		tags[string(kv.Key)] = string(kv.Value)
	}
	assert.Equal(t, "1000", tags["power"])
	assert.Equal(t, "1", tags["cycle"])
	assert.Equal(t, voter.Address().String(), tags["voter"])

	_, err = h.Check(ctx, db, tx)
	assert.True(t, errors.ErrNonceUsed.Is(err), "%+v", err)
	_, err = h.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrNonceUsed.Is(err), "%+v", err)
}

func TestCastVoteHandler(t *testing.T) {
	voter := harvesttest.NewKey()
	engine := newTestEngine(map[*crypto.PrivateKey]uint64{voter: 200})
	ctx := harvesttest.Context(5)
	tx := &harvesttest.Tx{Msg: &CastVoteMsg{Points: []uint64{0, 100, 0}}}

	db := newTestStore(t)
	unsigned := CastVoteHandler{auth: &harvesttest.Auth{}, engine: engine}
	_, err := unsigned.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	h := CastVoteHandler{auth: &harvesttest.Auth{Signer: voter.Condition()}, engine: engine}
	_, err = h.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = h.Deliver(ctx, db, tx)
	require.NoError(t, err)

	tally, err := GetTally(db, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 20000, 0}, tally.Allocations)
}
