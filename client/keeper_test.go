package client

import (
	"context"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest/assert"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/automation"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

type fakeNode struct {
	cycle     cycle.Cycle
	seq       int64
	submitErr error
	submitted []*keeperTx
}

func (n *fakeNode) CurrentCycle(context.Context) (*cycle.Cycle, error) {
	c := n.cycle
	return &c, nil
}

func (n *fakeNode) NextSequence(context.Context, harvest.Address) (int64, error) {
	return n.seq, nil
}

func (n *fakeNode) SubmitTx(ctx context.Context, tx harvest.Marshaller) (TransactionID, error) {
	if n.submitErr != nil {
		return nil, n.submitErr
	}
	n.submitted = append(n.submitted, tx.(*keeperTx))
	n.seq++
	return TransactionID{byte(len(n.submitted))}, nil
}

type keeperTx struct {
	msg  harvest.Msg
	sigs []*sigs.StdSignature
}

func newKeeperTx(m harvest.Msg) SignableTx {
	return &keeperTx{msg: m}
}

func (tx *keeperTx) Marshal() ([]byte, error)            { return []byte(tx.msg.Path()), nil }
func (tx *keeperTx) GetSignBytes() ([]byte, error)       { return []byte(tx.msg.Path()), nil }
func (tx *keeperTx) GetSignatures() []*sigs.StdSignature { return tx.sigs }
func (tx *keeperTx) AddSignature(sig *sigs.StdSignature) { tx.sigs = append(tx.sigs, sig) }

func TestKeeperPerform(t *testing.T) {
	key := crypto.GenPrivKey()

	cases := map[string]struct {
		cycle      cycle.Cycle
		submitErr  error
		heights    []int64
		wantSubmit []uint64
		wantErr    *errors.Error
	}{
		"cycle not complete": {
			cycle:   cycle.Cycle{Number: 1, StartHeight: 0, Length: 10},
			heights: []int64{5, 9},
		},
		"submitted once the cycle ends": {
			cycle:      cycle.Cycle{Number: 3, StartHeight: 20, Length: 10},
			heights:    []int64{29, 30},
			wantSubmit: []uint64{3},
		},
		"pending execution is not resubmitted right away": {
			cycle:      cycle.Cycle{Number: 2, StartHeight: 10, Length: 10},
			heights:    []int64{20, 21, 22},
			wantSubmit: []uint64{2},
		},
		"pending execution is retried": {
			cycle:      cycle.Cycle{Number: 2, StartHeight: 10, Length: 10},
			heights:    []int64{20, 20 + retryAfter},
			wantSubmit: []uint64{2, 2},
		},
		"distribution not ready is not an error": {
			cycle:     cycle.Cycle{Number: 1, StartHeight: 0, Length: 10},
			submitErr: errors.ABCIError(121, "distribution not ready: distribution not resolved"),
			heights:   []int64{10, 11},
		},
		"lock held is not an error": {
			cycle:     cycle.Cycle{Number: 1, StartHeight: 0, Length: 10},
			submitErr: errors.Wrap(errors.ErrLocked, "lock held"),
			heights:   []int64{10},
		},
		"network failure": {
			cycle:     cycle.Cycle{Number: 1, StartHeight: 0, Length: 10},
			submitErr: errors.Wrap(errors.ErrNetwork, "connection refused"),
			heights:   []int64{10},
			wantErr:   errors.ErrNetwork,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			n := &fakeNode{cycle: tc.cycle, seq: 4, submitErr: tc.submitErr}
			k := NewKeeper(n, key, "test-chain", "keeper", newKeeperTx, log.NewNopLogger())

			var err error
			for _, h := range tc.heights {
				if _, err = k.Perform(context.Background(), h); err != nil {
					break
				}
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			assert.Equal(t, len(tc.wantSubmit), len(n.submitted))
			for i, want := range tc.wantSubmit {
				tx := n.submitted[i]
				msg, ok := tx.msg.(*automation.PerformMsg)
				if !ok {
					t.Fatalf("unexpected message %T", tx.msg)
				}
				assert.Equal(t, "keeper", msg.Agent)
				assert.Equal(t, orm.EncodeSequence(want), msg.Payload)

				assert.Equal(t, 1, len(tx.sigs))
				assert.Equal(t, int64(4+i), tx.sigs[0].Sequence)
				signBytes, err := sigs.BuildSignBytesTx(tx, "test-chain", tx.sigs[0].Sequence)
				assert.Nil(t, err)
				signer, err := crypto.RecoverAddress(signBytes, tx.sigs[0].Signature)
				assert.Nil(t, err)
				assert.Equal(t, key.Address(), signer)
			}
		})
	}
}

func TestKeeperRun(t *testing.T) {
	n := &fakeNode{cycle: cycle.Cycle{Number: 1, StartHeight: 0, Length: 2}}
	k := NewKeeper(n, crypto.GenPrivKey(), "test-chain", "keeper", newKeeperTx, log.NewNopLogger())

	headers := make(chan Header, 3)
	headers <- Header{Height: 1}
	headers <- Header{Height: 2}
	headers <- Header{Height: 3}
	close(headers)

	err := k.Run(context.Background(), headers)
	if !errors.ErrNetwork.Is(err) {
		t.Fatalf("closed subscription must be reported, got %v", err)
	}
	assert.Equal(t, 1, len(n.submitted))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := k.Run(ctx, make(chan Header)); err != context.Canceled {
		t.Fatalf("want context cancelled, got %v", err)
	}
}
