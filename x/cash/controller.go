package cash

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move funds.
type Controller interface {
	Balance(db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error)
	MoveCoins(ctx harvest.Context, db harvest.KVStore, src, dest harvest.Address, amount uint64) error
	IssueCoins(ctx harvest.Context, db harvest.KVStore, dest harvest.Address, amount uint64) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	wallets     orm.ModelBucket
	checkpoints orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the package buckets.
func NewController() BaseController {
	return BaseController{
		wallets:     NewWalletBucket(),
		checkpoints: NewCheckpointBucket(),
	}
}

// Balance returns the current balance of given address. An address that
// never received funds has a zero balance.
func (c BaseController) Balance(db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := c.wallets.One(db, addr, &w); {
	case err == nil:
		return w.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't have sufficient coins, it fails.
func (c BaseController) MoveCoins(ctx harvest.Context, db harvest.KVStore, src, dest harvest.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	have, err := c.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", have, amount)
	}
	if err := c.setBalance(ctx, db, src, have-amount); err != nil {
		return err
	}

	// Source and destination may be the same account.
	got, err := c.Balance(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	total, err := x.AddUint64(got, amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}
	return c.setBalance(ctx, db, dest, total)
}

// IssueCoins adds the given amount of coins to the destination address.
// Fails if it overflows the wallet.
func (c BaseController) IssueCoins(ctx harvest.Context, db harvest.KVStore, dest harvest.Address, amount uint64) error {
	got, err := c.Balance(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	total, err := x.AddUint64(got, amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}
	return c.setBalance(ctx, db, dest, total)
}

func (c BaseController) setBalance(ctx harvest.Context, db harvest.KVStore, addr harvest.Address, amount uint64) error {
	if _, err := c.wallets.Put(db, addr, &Wallet{Amount: amount}); err != nil {
		return errors.Wrap(err, "save wallet")
	}
	height, _ := harvest.GetHeight(ctx)
	cp := Checkpoint{Height: height, Amount: amount}
	if _, err := c.checkpoints.Put(db, checkpointKey(addr, height), &cp); err != nil {
		return errors.Wrap(err, "save checkpoint")
	}
	return nil
}

// Checkpoints returns all balance checkpoints of given address, ordered by
// height.
func Checkpoints(db harvest.ReadOnlyKVStore, addr harvest.Address) ([]Checkpoint, error) {
	it, err := NewCheckpointBucket().PrefixScan(db, addr, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []Checkpoint
	for {
		var cp Checkpoint
		switch _, err := it.Next(&cp); {
		case err == nil:
			res = append(res, cp)
		case orm.IsDone(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// BalanceAt returns the balance of given address at the end of the block at
// given height.
func BalanceAt(db harvest.ReadOnlyKVStore, addr harvest.Address, height int64) (uint64, error) {
	cps, err := Checkpoints(db, addr)
	if err != nil {
		return 0, err
	}
	var amount uint64
	for _, cp := range cps {
		if cp.Height > height {
			break
		}
		amount = cp.Amount
	}
	return amount, nil
}
