package registry

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

var activeKey = []byte("active")

// Recipients is the ordered list of active recipients.
type Recipients struct {
	Addresses []harvest.Address
}

var _ orm.Model = (*Recipients)(nil)

func (r *Recipients) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *Recipients) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

func (r *Recipients) Validate() error {
	seen := make(map[string]struct{}, len(r.Addresses))
	for i, a := range r.Addresses {
		if err := a.Validate(); err != nil {
			return errors.Field("Addresses", err, "element %d", i)
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Field("Addresses", errors.ErrDuplicate, "element %d", i)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

func (r *Recipients) index(addr harvest.Address) int {
	for i, a := range r.Addresses {
		if a.Equals(addr) {
			return i
		}
	}
	return -1
}

// NewRecipientsBucket returns a bucket holding the active recipients
// singleton.
func NewRecipientsBucket() orm.ModelBucket {
	return orm.NewModelBucket("registry", &Recipients{})
}

// ChangeOp is the kind of a pending change.
type ChangeOp int32

const (
	ChangeAdd    ChangeOp = 1
	ChangeRemove ChangeOp = 2
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// PendingChange is a recipient set modification waiting to be applied.
type PendingChange struct {
	Op        ChangeOp
	Recipient harvest.Address
}

var _ orm.Model = (*PendingChange)(nil)

func (p *PendingChange) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(p) }
func (p *PendingChange) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, p) }

func (p *PendingChange) Validate() error {
	var errs error
	if p.Op != ChangeAdd && p.Op != ChangeRemove {
		errs = errors.Append(errs, errors.Field("Op", errors.ErrModel, "unknown operation %d", p.Op))
	}
	errs = errors.AppendField(errs, "Recipient", p.Recipient.Validate())
	return errs
}

// NewPendingBucket returns a bucket of pending changes, keyed by a
// sequence so that iteration follows the queue order.
func NewPendingBucket() orm.ModelBucket {
	return orm.NewModelBucket("registry_pend", &PendingChange{})
}
