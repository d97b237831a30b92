package custody

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const custodyCost = 100

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(&WithdrawMsg{}, WithdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(&AccrueMsg{}, AccrueHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("custody", &Configuration{}, auth))
}

// RegisterQuery will register the vault as "/custody" and deposits as
// "/deposits".
func RegisterQuery(qr harvest.QueryRouter) {
	NewVaultBucket().Register("custody", qr)
	NewDepositBucket().Register("deposits", qr)
}

// DepositHandler moves principal into the vault.
type DepositHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ harvest.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: custodyCost}, nil
}

func (h DepositHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	owner, msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.deposit(ctx, db, owner, msg.Amount); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h DepositHandler) validate(ctx harvest.Context, tx harvest.Tx) (harvest.Address, *DepositMsg, error) {
	var msg DepositMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), &msg, nil
}

// WithdrawHandler returns principal from the vault.
type WithdrawHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ harvest.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: custodyCost}, nil
}

func (h WithdrawHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	owner, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.withdraw(ctx, db, owner, msg.Amount); err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{}, nil
}

func (h WithdrawHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (harvest.Address, *WithdrawMsg, error) {
	var msg WithdrawMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if err := NewDepositBucket().Has(db, signer.Address()); err != nil {
		return nil, nil, errors.Wrap(err, "no deposit")
	}
	return signer.Address(), &msg, nil
}

// AccrueHandler moves yield from the yield source into the vault.
type AccrueHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ harvest.Handler = AccrueHandler{}

func (h AccrueHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: custodyCost}, nil
}

func (h AccrueHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	source, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.cash.MoveCoins(ctx, db, source, VaultAddress, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "accrue")
	}
	harvest.GetLogger(ctx).With("module", "custody").Debug("yield accrued", "amount", msg.Amount)
	return &harvest.DeliverResult{}, nil
}

func (h AccrueHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (harvest.Address, *AccrueMsg, error) {
	var msg AccrueMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.YieldSource) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "yield source signature required")
	}
	return conf.YieldSource, &msg, nil
}
