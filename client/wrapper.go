package client

import (
	"context"
	"sync"
	"time"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// indexDelay is how long the tx indexer lags behind a new block header.
const indexDelay = 100 * time.Millisecond

// SubscribeTxByID blocks until the tx with the given hash is delivered.
// Cancel ctx to stop waiting.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// WatchTx returns the commit result of a tx. A tx that was already included
// before the call is found through the index, otherwise the call waits for
// its delivery.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before searching so that a tx delivered in between is not
	// missed.
	sub := make(chan resultOrError, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- resultOrError{result: res, err: err}
	}()

	if found, _ := c.GetTxByID(ctx, id); found != nil {
		return found, nil
	}
	r := <-sub
	return r.result, r.err
}

// CommitTx submits tx and waits until it is delivered in a block.
func (c *Client) CommitTx(ctx context.Context, tx harvest.Marshaller) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WatchTxs watches all ids concurrently. Results keep the order of ids and
// a nil id leaves a nil result. All failures are returned together.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	res := make([]*CommitResult, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		if id == nil {
			continue
		}
		wg.Add(1)
		go func(i int, id TransactionID) {
			defer wg.Done()
			res[i], errs[i] = c.WatchTx(ctx, id)
		}(i, id)
	}
	wg.Wait()

	if err := errors.Append(errs...); err != nil {
		return nil, err
	}
	return res, nil
}

// CommitTxs submits all txs in order and waits for their delivery. The first
// submission failure stops the call.
func (c *Client) CommitTxs(ctx context.Context, txs []harvest.Marshaller) ([]*CommitResult, error) {
	ids := make([]TransactionID, 0, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		ids = append(ids, id)
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock returns the first header produced after the call.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(Header) bool { return true })
}

// WaitForHeight returns the first new header at height or above. A height
// in the past still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	h, err := c.waitForHeader(ctx, func(h Header) bool { return h.Height >= height })
	return h, errors.Wrapf(err, "height %d", height)
}

// waitForHeader returns the first header accepted by match, once the tx
// index caught up with it.
func (c *Client) waitForHeader(ctx context.Context, match func(Header) bool) (*Header, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if match(h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	return nil, errors.Wrap(errors.ErrNetwork, "header subscription closed")
}
