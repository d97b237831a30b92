package cash

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const sendTxCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery will register wallets as "/wallets" and balance checkpoints
// as "/checkpoints".
func RegisterQuery(qr harvest.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewCheckpointBucket().Register("checkpoints", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ harvest.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	msg, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(ctx, store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}

func NewConfigHandler(auth x.Authenticator) harvest.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler("cash", &conf, auth)
}
