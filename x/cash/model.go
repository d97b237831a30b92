package cash

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// Wallet holds the balance of a single address.
type Wallet struct {
	Amount uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(w) }
func (w *Wallet) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, w) }
func (w *Wallet) Validate() error            { return nil }

// NewWalletBucket returns a bucket storing wallets by owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// Checkpoint is the balance of an address as of the end of a block.
type Checkpoint struct {
	Height int64
	Amount uint64
}

var _ orm.Model = (*Checkpoint)(nil)

func (c *Checkpoint) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Checkpoint) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *Checkpoint) Validate() error {
	if c.Height < 0 {
		return errors.Field("Height", errors.ErrModel, "negative height")
	}
	return nil
}

// NewCheckpointBucket returns a bucket storing checkpoints under
// address | bigendian(height) key.
func NewCheckpointBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash_checkpt", &Checkpoint{})
}

func checkpointKey(addr harvest.Address, height int64) []byte {
	return orm.CompositeKey(addr, orm.EncodeSequence(uint64(height)))
}
