package registry

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// Controller exposes the recipient registry to other extensions.
type Controller interface {
	ActiveRecipients(db harvest.ReadOnlyKVStore) ([]harvest.Address, error)
	ActiveRecipientCount(db harvest.ReadOnlyKVStore) (int, error)
	// ApplyPendingChanges applies all queued changes in queue order and
	// returns the number of changes applied.
	ApplyPendingChanges(ctx harvest.Context, db harvest.KVStore) (int, error)
}

// BaseController is the default Controller implementation.
type BaseController struct {
	active  orm.ModelBucket
	pending orm.ModelBucket
}

var _ Controller = BaseController{}

func NewController() BaseController {
	return BaseController{
		active:  NewRecipientsBucket(),
		pending: NewPendingBucket(),
	}
}

func (c BaseController) load(db harvest.ReadOnlyKVStore) (*Recipients, error) {
	var r Recipients
	switch err := c.active.One(db, activeKey, &r); {
	case err == nil:
		return &r, nil
	case errors.ErrNotFound.Is(err):
		return &Recipients{}, nil
	default:
		return nil, errors.Wrap(err, "load recipients")
	}
}

func (c BaseController) ActiveRecipients(db harvest.ReadOnlyKVStore) ([]harvest.Address, error) {
	r, err := c.load(db)
	if err != nil {
		return nil, err
	}
	return r.Addresses, nil
}

func (c BaseController) ActiveRecipientCount(db harvest.ReadOnlyKVStore) (int, error) {
	r, err := c.load(db)
	if err != nil {
		return 0, err
	}
	return len(r.Addresses), nil
}

func (c BaseController) ApplyPendingChanges(ctx harvest.Context, db harvest.KVStore) (int, error) {
	log := harvest.GetLogger(ctx).With("module", "registry")

	r, err := c.load(db)
	if err != nil {
		return 0, err
	}

	it, err := c.pending.PrefixScan(db, nil, false)
	if err != nil {
		return 0, err
	}
	var keys [][]byte
	var changes []PendingChange
	for {
		var ch PendingChange
		key, err := it.Next(&ch)
		if orm.IsDone(err) {
			break
		}
		if err != nil {
			it.Release()
			return 0, errors.Wrap(err, "pending changes")
		}
		keys = append(keys, key)
		changes = append(changes, ch)
	}
	it.Release()

	var applied int
	for i, ch := range changes {
		switch idx := r.index(ch.Recipient); ch.Op {
		case ChangeAdd:
			if idx >= 0 {
				log.Info("recipient already active, change skipped", "recipient", ch.Recipient)
				break
			}
			r.Addresses = append(r.Addresses, ch.Recipient)
			applied++
		case ChangeRemove:
			if idx < 0 {
				log.Info("recipient not active, change skipped", "recipient", ch.Recipient)
				break
			}
			r.Addresses = append(r.Addresses[:idx], r.Addresses[idx+1:]...)
			applied++
		}
		if err := c.pending.Delete(db, keys[i]); err != nil {
			return 0, errors.Wrap(err, "delete pending change")
		}
	}

	if _, err := c.active.Put(db, activeKey, r); err != nil {
		return 0, errors.Wrap(err, "save recipients")
	}
	return applied, nil
}

// queue adds a pending change to the end of the queue.
func (c BaseController) queue(db harvest.KVStore, op ChangeOp, recipient harvest.Address) ([]byte, error) {
	return c.pending.Put(db, nil, &PendingChange{Op: op, Recipient: recipient})
}
