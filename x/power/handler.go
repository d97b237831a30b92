package power

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const delegateCost = 50

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator) {
	r.Handle(&DelegateMsg{}, DelegateHandler{auth: auth})
	r.Handle(&UndelegateMsg{}, UndelegateHandler{auth: auth})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("power", &Configuration{}, auth))
}

// RegisterQuery will register delegations as "/delegations".
func RegisterQuery(qr harvest.QueryRouter) {
	NewDelegationBucket().Register("delegations", qr)
}

// DelegateHandler creates or replaces the delegation of the signer.
type DelegateHandler struct {
	auth x.Authenticator
}

var _ harvest.Handler = DelegateHandler{}

func (h DelegateHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: delegateCost}, nil
}

func (h DelegateHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	d, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := delegate(db, d); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h DelegateHandler) validate(ctx harvest.Context, tx harvest.Tx) (*Delegation, error) {
	var msg DelegateMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	d := &Delegation{Delegator: signer.Address(), Delegate: msg.Delegate}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// UndelegateHandler removes the delegation of the signer.
type UndelegateHandler struct {
	auth x.Authenticator
}

var _ harvest.Handler = UndelegateHandler{}

func (h UndelegateHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: delegateCost}, nil
}

func (h UndelegateHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	delegator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := undelegate(db, delegator); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h UndelegateHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (harvest.Address, error) {
	var msg UndelegateMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := NewDelegationBucket().Has(db, signer.Address()); err != nil {
		return nil, errors.Wrap(err, "no delegation")
	}
	return signer.Address(), nil
}
