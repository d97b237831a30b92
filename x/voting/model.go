package voting

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// VoterCycleRecord is the live vote of a voter in a cycle.
type VoterCycleRecord struct {
	Cycle           uint64
	Voter           harvest.Address
	VotingPowerUsed uint64
	Points          []uint64
	// Allocations are the values this vote added to the project
	// distribution. A recast subtracts exactly these.
	Allocations    []uint64
	LastVotedCycle uint64
}

var _ orm.Model = (*VoterCycleRecord)(nil)

func (r *VoterCycleRecord) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *VoterCycleRecord) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

func (r *VoterCycleRecord) Validate() error {
	var errs error
	if r.Cycle == 0 {
		errs = errors.Append(errs, errors.Field("Cycle", errors.ErrModel, "required"))
	}
	errs = errors.AppendField(errs, "Voter", r.Voter.Validate())
	if len(r.Points) == 0 {
		errs = errors.Append(errs, errors.Field("Points", errors.ErrEmpty, "required"))
	}
	if len(r.Allocations) != len(r.Points) {
		errs = errors.Append(errs, errors.Field("Allocations", errors.ErrModel, "must match the points"))
	}
	if r.LastVotedCycle != r.Cycle {
		errs = errors.Append(errs, errors.Field("LastVotedCycle", errors.ErrModel, "must match the cycle"))
	}
	return errs
}

// NewRecordBucket returns a bucket of voter records keyed by the cycle
// followed by the voter address.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("votes", &VoterCycleRecord{})
}

func recordKey(cycle uint64, voter harvest.Address) []byte {
	return orm.CompositeKey(orm.EncodeSequence(cycle), voter)
}

// ProjectDistribution holds the weighted allocation of every recipient
// slot in a cycle.
type ProjectDistribution struct {
	Cycle       uint64
	Allocations []uint64
}

var _ orm.Model = (*ProjectDistribution)(nil)

func (p *ProjectDistribution) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(p) }
func (p *ProjectDistribution) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, p) }

func (p *ProjectDistribution) Validate() error {
	if p.Cycle == 0 {
		return errors.Field("Cycle", errors.ErrModel, "required")
	}
	return nil
}

// Total returns the sum of all allocations.
func (p *ProjectDistribution) Total() (uint64, error) {
	var total uint64
	for _, a := range p.Allocations {
		if total+a < total {
			return 0, errors.Wrap(errors.ErrOverflow, "allocation total")
		}
		total += a
	}
	return total, nil
}

// NewTallyBucket returns a bucket of project distributions keyed by cycle.
func NewTallyBucket() orm.ModelBucket {
	return orm.NewModelBucket("tallies", &ProjectDistribution{})
}

// CycleAggregates counts the voting power and the voters of a cycle.
type CycleAggregates struct {
	Cycle            uint64
	TotalVotingPower uint64
	VoteCount        uint64
	// Precision and MaxPoints are copied from the configuration by the
	// first vote of the cycle. Configuration changes apply from the next
	// cycle on.
	Precision uint64
	MaxPoints uint64
}

var _ orm.Model = (*CycleAggregates)(nil)

func (a *CycleAggregates) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(a) }
func (a *CycleAggregates) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, a) }

func (a *CycleAggregates) Validate() error {
	if a.Cycle == 0 {
		return errors.Field("Cycle", errors.ErrModel, "required")
	}
	return nil
}

// Scale returns the precision and the max points that apply to votes of the
// cycle.
func (a *CycleAggregates) Scale(conf *Configuration) (precision, maxPoints uint64) {
	if a.Precision == 0 {
		return conf.Precision, conf.MaxPoints
	}
	return a.Precision, a.MaxPoints
}

// NewAggregatesBucket returns a bucket of cycle aggregates keyed by cycle.
func NewAggregatesBucket() orm.ModelBucket {
	return orm.NewModelBucket("aggregates", &CycleAggregates{})
}

// NonceRecord marks a nonce of a voter as used.
type NonceRecord struct {
	Cycle  uint64
	Height int64
}

var _ orm.Model = (*NonceRecord)(nil)

func (n *NonceRecord) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(n) }
func (n *NonceRecord) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, n) }
func (n *NonceRecord) Validate() error            { return nil }

// NewNonceBucket returns a bucket of used nonces keyed by the voter address
// followed by the nonce.
func NewNonceBucket() orm.ModelBucket {
	return orm.NewModelBucket("nonces", &NonceRecord{})
}

func nonceKey(voter harvest.Address, nonce uint64) []byte {
	return orm.CompositeKey(voter, orm.EncodeSequence(nonce))
}

// IsNonceUsed returns true if the nonce was consumed by a vote of the
// voter.
func IsNonceUsed(db harvest.ReadOnlyKVStore, voter harvest.Address, nonce uint64) (bool, error) {
	switch err := NewNonceBucket().Has(db, nonceKey(voter, nonce)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// VoteCast is the audit record emitted for every accepted vote.
type VoteCast struct {
	Cycle       uint64
	Voter       harvest.Address
	Points      []uint64
	Nonce       uint64
	VotingPower uint64
	Recast      bool
	Height      int64
}

var _ orm.Model = (*VoteCast)(nil)

func (v *VoteCast) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(v) }
func (v *VoteCast) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, v) }

func (v *VoteCast) Validate() error {
	return errors.AppendField(nil, "Voter", v.Voter.Validate())
}

// NewVoteCastBucket returns a sequence keyed bucket of vote cast records.
func NewVoteCastBucket() orm.ModelBucket {
	return orm.NewModelBucket("votecasts", &VoteCast{})
}

// GetTally returns the project distribution of a cycle. A cycle without
// votes has an empty distribution.
func GetTally(db harvest.ReadOnlyKVStore, cycle uint64) (*ProjectDistribution, error) {
	var p ProjectDistribution
	switch err := NewTallyBucket().One(db, orm.EncodeSequence(cycle), &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return &ProjectDistribution{Cycle: cycle}, nil
	default:
		return nil, err
	}
}

// GetAggregates returns the aggregates of a cycle. A cycle without votes
// has zero aggregates.
func GetAggregates(db harvest.ReadOnlyKVStore, cycle uint64) (*CycleAggregates, error) {
	var a CycleAggregates
	switch err := NewAggregatesBucket().One(db, orm.EncodeSequence(cycle), &a); {
	case err == nil:
		return &a, nil
	case errors.ErrNotFound.Is(err):
		return &CycleAggregates{Cycle: cycle}, nil
	default:
		return nil, err
	}
}

// GetRecord returns the vote of a voter in a cycle or nil.
func GetRecord(db harvest.ReadOnlyKVStore, cycle uint64, voter harvest.Address) (*VoterCycleRecord, error) {
	var r VoterCycleRecord
	switch err := NewRecordBucket().One(db, recordKey(cycle, voter), &r); {
	case err == nil:
		return &r, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}
