package app

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder harvest.TxDecoder
	handler harvest.Handler
	ticker  harvest.Ticker
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder harvest.TxDecoder,
	handler harvest.Handler,
	ticker harvest.Ticker,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		ticker:   ticker,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return harvest.DeliverTxError(err, b.debug)
	}

	ctx := harvest.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", harvest.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return harvest.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return harvest.CheckTxError(err, b.debug)
	}

	ctx := harvest.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", harvest.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return harvest.CheckOrError(res, err, b.debug)
}

// BeginBlock - ABCI
func (b BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.StoreApp.BeginBlock(req)

	var response abci.ResponseBeginBlock
	if b.ticker != nil {
		ctx := harvest.WithLogInfo(b.BlockContext(), "call", "begin_block")
		tr := b.ticker.Tick(ctx, b.DeliverStore())
		response.Tags = append(response.Tags, tr.Tags...)
	}
	return response
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx harvest.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
