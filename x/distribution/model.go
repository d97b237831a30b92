package distribution

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// Payout is an amount paid to a single recipient.
type Payout struct {
	Recipient harvest.Address
	Amount    uint64
}

// DistributionResult describes a single executed distribution.
type DistributionResult struct {
	Cycle        uint64
	TotalYield   uint64
	FixedAmount  uint64
	VotedAmount  uint64
	FixedPayouts []Payout
	VotedPayouts []Payout
}

var _ orm.Model = (*DistributionResult)(nil)

func (r *DistributionResult) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *DistributionResult) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

func (r *DistributionResult) Validate() error {
	var errs error
	if r.FixedAmount+r.VotedAmount != r.TotalYield {
		errs = errors.Append(errs, errors.Field("TotalYield", errors.ErrModel, "must be the sum of fixed and voted amount"))
	}
	if sumPayouts(r.FixedPayouts) != r.FixedAmount {
		errs = errors.Append(errs, errors.Field("FixedPayouts", errors.ErrModel, "must sum up to the fixed amount"))
	}
	if sumPayouts(r.VotedPayouts) != r.VotedAmount {
		errs = errors.Append(errs, errors.Field("VotedPayouts", errors.ErrModel, "must sum up to the voted amount"))
	}
	return errs
}

func sumPayouts(ps []Payout) uint64 {
	var total uint64
	for _, p := range ps {
		total += p.Amount
	}
	return total
}

// NewRecordBucket returns a bucket of executed distributions keyed by the
// cycle they were executed for.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("distrecord", &DistributionResult{})
}

// GetRecord returns the distribution executed for given cycle.
func GetRecord(db harvest.ReadOnlyKVStore, cycle uint64) (*DistributionResult, error) {
	var r DistributionResult
	if err := NewRecordBucket().One(db, orm.EncodeSequence(cycle), &r); err != nil {
		return nil, err
	}
	return &r, nil
}
