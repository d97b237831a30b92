package client

import (
	"context"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/distribution"
	"github.com/harvestnet/harvest/x/sigs"
)

// NextSequence returns the sequence that the next transaction signed by
// given address must use.
func (c *Client) NextSequence(ctx context.Context, addr harvest.Address) (int64, error) {
	var u sigs.UserData
	switch err := c.one("/auth", addr, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Balance returns the cash balance of given address.
func (c *Client) Balance(ctx context.Context, addr harvest.Address) (uint64, error) {
	var w cash.Wallet
	switch err := c.one("/wallets", addr, &w); {
	case err == nil:
		return w.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// CurrentCycle returns the cycle that is currently collecting votes.
func (c *Client) CurrentCycle(ctx context.Context) (*cycle.Cycle, error) {
	resp, err := c.AbciQuery("/cycle?"+harvest.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Models) != 1 {
		return nil, errors.Wrapf(errors.ErrState, "expected one current cycle, got %d", len(resp.Models))
	}
	var cur cycle.Cycle
	if err := cur.Unmarshal(resp.Models[0].Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal cycle")
	}
	return &cur, nil
}

// Distribution returns the distribution executed for given cycle.
func (c *Client) Distribution(ctx context.Context, number uint64) (*distribution.DistributionResult, error) {
	var res distribution.DistributionResult
	if err := c.one("/distributions", orm.EncodeSequence(number), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// one loads a single model by its key.
func (c *Client) one(path string, key []byte, dest harvest.Persistent) error {
	resp, err := c.AbciQuery(path, key)
	if err != nil {
		return err
	}
	if len(resp.Models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	if err := dest.Unmarshal(resp.Models[0].Value); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", path)
	}
	return nil
}
