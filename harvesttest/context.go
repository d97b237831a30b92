package harvesttest

import (
	"context"
	"time"

	"github.com/harvestnet/harvest"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ChainID is used by all contexts created in tests.
const ChainID = "harvest-test"

// BlockTime is the time of a block at height zero. Every next block is one
// second later.
var BlockTime = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

// Context returns a context that represents a block at given height.
func Context(height int64) harvest.Context {
	return ContextAt(height, BlockTime.Add(time.Duration(height)*time.Second))
}

// ContextAt returns a context that represents a block at given height and
// time.
func ContextAt(height int64, now time.Time) harvest.Context {
	ctx := context.Background()
	ctx = harvest.WithHeader(ctx, abci.Header{ChainID: ChainID, Height: height, Time: now})
	ctx = harvest.WithHeight(ctx, height)
	ctx = harvest.WithChainID(ctx, ChainID)
	ctx = harvest.WithBlockTime(ctx, now)
	return ctx
}
