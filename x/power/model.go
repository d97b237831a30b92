package power

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// Delegation passes the voting power of the delegator to the delegate.
type Delegation struct {
	Delegator harvest.Address
	Delegate  harvest.Address
}

var _ orm.Model = (*Delegation)(nil)

func (d *Delegation) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(d) }
func (d *Delegation) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, d) }

func (d *Delegation) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Delegator", d.Delegator.Validate())
	errs = errors.AppendField(errs, "Delegate", d.Delegate.Validate())
	if d.Delegator.Equals(d.Delegate) {
		errs = errors.Append(errs, errors.Field("Delegate", errors.ErrInput, "cannot delegate to self"))
	}
	return errs
}

// NewDelegationBucket returns a bucket storing delegations by delegator.
func NewDelegationBucket() orm.ModelBucket {
	return orm.NewModelBucket("power_deleg", &Delegation{})
}

// newReverseBucket returns an index of delegations, stored under
// delegate | delegator key.
func newReverseBucket() orm.ModelBucket {
	return orm.NewModelBucket("power_rev", &Delegation{})
}

// Delegators returns all addresses that delegated to given delegate.
func Delegators(db harvest.ReadOnlyKVStore, delegate harvest.Address) ([]harvest.Address, error) {
	it, err := newReverseBucket().PrefixScan(db, delegate, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []harvest.Address
	for {
		var d Delegation
		switch _, err := it.Next(&d); {
		case err == nil:
			res = append(res, d.Delegator)
		case orm.IsDone(err):
			return res, nil
		default:
			return nil, err
		}
	}
}

// IsDelegating returns true if addr passed its voting power to a delegate.
func IsDelegating(db harvest.ReadOnlyKVStore, addr harvest.Address) (bool, error) {
	switch err := NewDelegationBucket().Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// delegate replaces any existing delegation of the delegator.
func delegate(db harvest.KVStore, d *Delegation) error {
	if err := undelegate(db, d.Delegator); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	if _, err := NewDelegationBucket().Put(db, d.Delegator, d); err != nil {
		return errors.Wrap(err, "delegation")
	}
	if _, err := newReverseBucket().Put(db, orm.CompositeKey(d.Delegate, d.Delegator), d); err != nil {
		return errors.Wrap(err, "delegation index")
	}
	return nil
}

func undelegate(db harvest.KVStore, delegator harvest.Address) error {
	b := NewDelegationBucket()
	var d Delegation
	if err := b.One(db, delegator, &d); err != nil {
		return err
	}
	if err := b.Delete(db, delegator); err != nil {
		return err
	}
	return newReverseBucket().Delete(db, orm.CompositeKey(d.Delegate, d.Delegator))
}
