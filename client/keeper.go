package client

import (
	"context"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/automation"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Node is the part of the Client functionality used by the Keeper.
type Node interface {
	CurrentCycle(ctx context.Context) (*cycle.Cycle, error)
	NextSequence(ctx context.Context, addr harvest.Address) (int64, error)
	SubmitTx(ctx context.Context, tx harvest.Marshaller) (TransactionID, error)
}

var _ Node = (*Client)(nil)

// SignableTx is a transaction that the keeper can sign and submit.
type SignableTx interface {
	harvest.Marshaller
	sigs.SignedTx
	AddSignature(*sigs.StdSignature)
}

// TxFactory wraps a message into a new, unsigned transaction.
type TxFactory func(harvest.Msg) SignableTx

// retryAfter is the number of blocks a keeper waits for a submitted
// execution before submitting another one for the same cycle.
const retryAfter = 5

// Keeper is an off chain triggering agent. It watches new blocks and
// submits a PerformMsg once the current cycle ended. The chain decides if
// the distribution is ready, so a rejected submission is not an error.
type Keeper struct {
	node    Node
	signer  crypto.Signer
	chainID string
	agent   string
	newTx   TxFactory
	logger  log.Logger

	// Cycle and height of the last accepted submission.
	submittedCycle  uint64
	submittedHeight int64
}

// NewKeeper returns a keeper performing executions as given agent, signing
// them with the signer key.
func NewKeeper(node Node, signer crypto.Signer, chainID, agent string, newTx TxFactory, logger log.Logger) *Keeper {
	return &Keeper{
		node:    node,
		signer:  signer,
		chainID: chainID,
		agent:   agent,
		newTx:   newTx,
		logger:  logger.With("module", "keeper", "agent", agent),
	}
}

// Run calls Perform for every received header. It returns when the
// context is cancelled or the header channel is closed. Failed
// submissions are logged and retried with the next header.
func (k *Keeper) Run(ctx context.Context, headers <-chan Header) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case h, ok := <-headers:
			if !ok {
				return errors.Wrap(errors.ErrNetwork, "header subscription closed")
			}
			if _, err := k.Perform(ctx, h.Height); err != nil {
				k.logger.Error("perform", "height", h.Height, "err", err)
			}
		}
	}
}

// Perform submits an execution request if the current cycle ended at
// given height. It returns the id of the submitted transaction, or nil if
// nothing was submitted.
func (k *Keeper) Perform(ctx context.Context, height int64) (TransactionID, error) {
	cur, err := k.node.CurrentCycle(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "current cycle")
	}
	if height < cur.EndHeight() {
		return nil, nil
	}
	if cur.Number == k.submittedCycle && height < k.submittedHeight+retryAfter {
		return nil, nil
	}

	seq, err := k.node.NextSequence(ctx, k.signer.Address())
	if err != nil {
		return nil, errors.Wrap(err, "sequence")
	}
	tx := k.newTx(&automation.PerformMsg{
		Agent:   k.agent,
		Payload: orm.EncodeSequence(cur.Number),
	})
	sig, err := sigs.SignTx(k.signer, tx, k.chainID, seq)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.AddSignature(sig)

	id, err := k.node.SubmitTx(ctx, tx)
	switch {
	case err == nil:
		k.submittedCycle = cur.Number
		k.submittedHeight = height
		k.logger.Info("execution submitted", "cycle", cur.Number, "tx", id)
		return id, nil
	case errors.ErrNotResolved.Is(err), errors.ErrLocked.Is(err):
		k.logger.Debug("not ready", "cycle", cur.Number, "reason", err)
		return nil, nil
	default:
		return nil, errors.Wrap(err, "submit")
	}
}
