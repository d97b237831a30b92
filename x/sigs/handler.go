package sigs

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x"
)

// RegisterRoutes registers the sequence bump handler.
func RegisterRoutes(r harvest.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{b: NewBucket(), auth: auth})
}

type bumpSequenceHandler struct {
	auth x.Authenticator
	b    Bucket
}

func (h *bumpSequenceHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	addr, user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Each transaction processing bumps the sequence by one. Increment
	// must represent the total increment value.
	incr := int64(msg.Increment) - 1
	if incr == 0 {
		return &harvest.DeliverResult{}, nil
	}
	user.Sequence += incr
	if _, err := h.b.Put(db, addr, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &harvest.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (harvest.Address, *UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	addr := signer.Address()
	var user UserData
	if err := h.b.One(db, addr, &user); err != nil {
		return nil, nil, nil, errors.Wrap(err, "no sequence")
	}
	if user.Sequence+int64(msg.Increment) > maxSequenceValue {
		return nil, nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return addr, &user, &msg, nil
}
