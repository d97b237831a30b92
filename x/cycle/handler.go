package cycle

import (
	"strconv"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
	"github.com/tendermint/tendermint/libs/common"
)

const advanceCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(&AdvanceCycleMsg{}, AdvanceCycleHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("cycle", &Configuration{}, auth))
}

// RegisterQuery will register the current cycle as "/cycle" and past
// cycles as "/cyclehist".
func RegisterQuery(qr harvest.QueryRouter) {
	NewCycleBucket().Register("cycle", qr)
	NewHistoryBucket().Register("cyclehist", qr)
}

// AdvanceCycleHandler advances the cycle on behalf of the main signer.
type AdvanceCycleHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ harvest.Handler = AdvanceCycleHandler{}

func (h AdvanceCycleHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.ctrl.AdvanceCycle(ctx, db, caller); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: advanceCost}, nil
}

func (h AdvanceCycleHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	info, err := h.ctrl.AdvanceCycle(ctx, db, caller)
	if err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{Tags: Tags(info)}, nil
}

func (h AdvanceCycleHandler) validate(ctx harvest.Context, tx harvest.Tx) (harvest.Address, error) {
	var msg AdvanceCycleMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

// Tags returns the result tags describing a new cycle.
func Tags(info *CycleInfo) []common.KVPair {
	return []common.KVPair{
		harvest.Tag("cycle", []byte(strconv.FormatUint(info.Number, 10))),
		harvest.Tag("cycle_end_height", []byte(strconv.FormatInt(info.EndHeight, 10))),
	}
}
