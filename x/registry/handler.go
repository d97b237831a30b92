package registry

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const queueCost = 50

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, ctrl BaseController) {
	r.Handle(&QueueAddMsg{}, queueHandler{auth: auth, ctrl: ctrl})
	r.Handle(&QueueRemoveMsg{}, queueHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("registry", &Configuration{}, auth))
}

// RegisterQuery will register active recipients as "/recipients" and the
// change queue as "/pending".
func RegisterQuery(qr harvest.QueryRouter) {
	NewRecipientsBucket().Register("recipients", qr)
	NewPendingBucket().Register("pending", qr)
}

// queueHandler handles both kinds of queue messages.
type queueHandler struct {
	auth x.Authenticator
	ctrl BaseController
}

var _ harvest.Handler = queueHandler{}

func (h queueHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: queueCost}, nil
}

func (h queueHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	op, recipient, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key, err := h.ctrl.queue(db, op, recipient)
	if err != nil {
		return nil, errors.Wrap(err, "queue")
	}
	harvest.GetLogger(ctx).With("module", "registry").Info("change queued", "op", op, "recipient", recipient)
	return &harvest.DeliverResult{Data: key}, nil
}

func (h queueHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (ChangeOp, harvest.Address, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot get message")
	}
	var (
		op        ChangeOp
		recipient harvest.Address
	)
	switch m := msg.(type) {
	case *QueueAddMsg:
		op, recipient = ChangeAdd, m.Recipient
	case *QueueRemoveMsg:
		op, recipient = ChangeRemove, m.Recipient
	default:
		return 0, nil, errors.Wrapf(errors.ErrType, "unexpected message %T", msg)
	}
	if err := msg.Validate(); err != nil {
		return 0, nil, errors.Wrap(err, "invalid message")
	}

	conf := mustLoadConf(db)
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return 0, nil, errors.Wrap(errors.ErrUnauthorized, "registry owner signature required")
	}
	return op, recipient, nil
}
