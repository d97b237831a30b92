package client

import (
	"fmt"

	"github.com/harvestnet/harvest"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Tendermint types exposed by the client API.
type (
	// TransactionID is the tendermint hash of the tx bytes.
	TransactionID = cmn.HexBytes
	// TxQuery is a tendermint pubsub query over tx events and tags.
	TxQuery = string
	// GenesisDoc carries the chain ID used in sign bytes.
	GenesisDoc = tmtypes.GenesisDoc

	RequestQuery  = abci.RequestQuery
	ResponseQuery = abci.ResponseQuery
	Header        = tmtypes.Header
)

// CommitResult describes a tx included in a block. Exactly one of Result
// and Err is set, depending on the DeliverTx code.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *harvest.DeliverResult
	Err    error
}

// Status is the view of the connected node.
type Status struct {
	Height     int64
	CatchingUp bool
}

// AbciResponse is a decoded query result. Models keys are returned without
// the bucket prefix.
type AbciResponse struct {
	Height int64
	Models []harvest.Model
}

type resultOrError struct {
	result *CommitResult
	err    error
}

// Option tunes a subscription.
type Option interface {
	isOption()
}

// OptionCapacity sets the buffer size of the subscription channel.
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID matches the single tx with the given hash.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryForHeader matches every new block header.
func QueryForHeader() string {
	return queryForEvent(tmtypes.EventNewBlockHeader)
}

// QueryForTag returns a transaction search query matching given deliver
// tag, for example all executions reported by the automation module.
func QueryForTag(key, value string) TxQuery {
	return fmt.Sprintf("%s='%s'", key, value)
}

func queryForEvent(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}
