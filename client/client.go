package client

import (
	"context"
	"fmt"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/app"
	"github.com/harvestnet/harvest/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const txPerPage = 50

// Client is a tendermint client wrapped to provide simple access to the
// basic data structures of a harvest chain.
//
// Basic accessors are declared here. Higher level helpers are built on top
// of them in other files of this package.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient talks to an in-process node.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(NewLocalConnection(node))
}

// NewLocalConnection connects to an in-process node.
func NewLocalConnection(node *nm.Node) rpcclient.Client {
	return rpcclient.NewLocal(node)
}

// NewHTTPConnection connects to the RPC address of a remote node, for
// example tcp://localhost:26657. The returned client must be started before
// any subscription.
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Status reports the latest height known to the connected node.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err.Error())
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the header of the block at height. A height that was not
// produced yet is an ErrInput.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err.Error())
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrInput, "no headers for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// Genesis returns the genesis document of the chain.
func (c *Client) Genesis(ctx context.Context) (*GenesisDoc, error) {
	gen, err := c.conn.Genesis()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "genesis: %s", err.Error())
	}
	return gen.Genesis, nil
}

// SubmitTx broadcasts tx and returns once CheckTx passed. The delivery
// result is obtained with WatchTx, or use CommitTx to do both.
func (c *Client) SubmitTx(ctx context.Context, tx harvest.Marshaller) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err.Error())
	}

	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// Query runs a raw ABCI query. Network failures are reported with the
// ErrNetwork code in the response.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove}
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{
			Code: code,
			Log:  log,
		}
	}
	return res.Response
}

// AbciQuery calls the given query path and decodes the result sets returned
// by the application.
func (c *Client) AbciQuery(path string, data []byte) (*AbciResponse, error) {
	return parseQueryResponse(c.Query(RequestQuery{Path: path, Data: data}))
}

func parseQueryResponse(resp ResponseQuery) (*AbciResponse, error) {
	if resp.IsErr() {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	out := AbciResponse{Height: resp.Height}
	if len(resp.Key) == 0 {
		return &out, nil
	}
	var keys, vals app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := vals.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	models, err := app.JoinResults(&keys, &vals)
	if err != nil {
		return nil, err
	}
	out.Models = models
	return &out, nil
}

// GetTxByID looks up a delivered tx in the index.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err.Error())
	}
	return resultTxToCommitResult(tx), nil
}

// SearchTx returns delivered txs matching query, for example a QueryForTag
// over automation reports.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	// TODO: iterate over all pages once more than txPerPage results are expected.
	search, err := c.conn.TxSearch(query, false, 1, txPerPage)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err.Error())
	}

	results := make([]*CommitResult, len(search.Txs))
	for i, tx := range search.Txs {
		results[i] = resultTxToCommitResult(tx)
	}
	return results, nil
}

// SubscribeHeaders sends every new block header to results until ctx is
// cancelled. results is closed when the subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header, options ...Option) error {
	in, err := c.subscribe(ctx, QueryForHeader(), options...)
	if err != nil {
		return err
	}
	go relay(ctx, in, func() { close(results) }, func(data tmtypes.TMEventData) bool {
		ev, ok := data.(tmtypes.EventDataNewBlockHeader)
		if !ok {
			return true
		}
		select {
		case results <- ev.Header:
			return true
		case <-ctx.Done():
			return false
		}
	})
	return nil
}

// SubscribeTx sends every delivered tx matching query to results until ctx
// is cancelled. results is closed when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult, options ...Option) error {
	q := fmt.Sprintf("%s='%s' AND %s", tmtypes.EventTypeKey, tmtypes.EventTx, query)
	in, err := c.subscribe(ctx, q, options...)
	if err != nil {
		return err
	}
	go relay(ctx, in, func() { close(results) }, func(data tmtypes.TMEventData) bool {
		ev, ok := data.(tmtypes.EventDataTx)
		if !ok {
			return true
		}
		select {
		case results <- txResultToCommitResult(ev.TxResult):
			return true
		case <-ctx.Done():
			return false
		}
	})
	return nil
}

// relay passes events to emit until ctx is done, the input closes or emit
// returns false. done runs once on exit.
func relay(ctx context.Context, in <-chan ctypes.ResultEvent, done func(), emit func(tmtypes.TMEventData) bool) {
	defer done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok || !emit(ev.Data) {
				return
			}
		}
	}
}

// subscribe opens a subscription that is dropped once ctx is done.
func (c *Client) subscribe(ctx context.Context, query string, options ...Option) (<-chan ctypes.ResultEvent, error) {
	var outCapacity []int
	for _, option := range options {
		switch o := option.(type) {
		case OptionCapacity:
			outCapacity = []int{o.Capacity}
		}
	}
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "query %q: %s", query, err.Error())
	}

	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String(), outCapacity...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe to %q: %s", query, err.Error())
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()

	return out, nil
}

func resultTxToCommitResult(tx *ctypes.ResultTx) *CommitResult {
	res, err := parseDeliver(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

func txResultToCommitResult(tx tmtypes.TxResult) CommitResult {
	res, err := parseDeliver(tx.Result)
	return CommitResult{
		ID:     tx.Tx.Hash(),
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

// parseDeliver is the reverse of harvest.DeliverOrError.
func parseDeliver(res abci.ResponseDeliverTx) (*harvest.DeliverResult, error) {
	if res.Code != abci.CodeTypeOK {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &harvest.DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}
