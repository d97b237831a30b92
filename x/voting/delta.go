package voting

import (
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x"
)

// Contribution is what a single vote adds to the cycle state.
type Contribution struct {
	Power       uint64
	Votes       uint64
	Allocations []uint64
}

// Delta describes the change of the cycle state caused by a vote. Reverse
// is nil unless the vote replaces an earlier one.
type Delta struct {
	Reverse *Contribution
	Apply   Contribution
}

// NewContribution computes the contribution of a vote with given power.
// Every allocation is power * points[i] * precision / maxPoints, so any
// positive power and points give a nonzero allocation as long as precision
// is not below maxPoints.
func NewContribution(power uint64, points []uint64, precision, maxPoints uint64) (*Contribution, error) {
	allocs := make([]uint64, len(points))
	for i, p := range points {
		a, err := x.Fraction([]uint64{power, p, precision}, []uint64{maxPoints})
		if err != nil {
			return nil, errors.Wrapf(err, "allocation %d", i)
		}
		allocs[i] = a
	}
	return &Contribution{Power: power, Votes: 1, Allocations: allocs}, nil
}

// ApplyDelta returns the change required to replace the old vote (if any)
// with a new vote. The old vote is reversed by the allocations it recorded,
// never by recomputing them. It has no side effects.
func ApplyDelta(old *VoterCycleRecord, power uint64, points []uint64, precision, maxPoints uint64) (*Delta, error) {
	apply, err := NewContribution(power, points, precision, maxPoints)
	if err != nil {
		return nil, err
	}
	d := Delta{Apply: *apply}
	if old != nil {
		if len(old.Allocations) != len(old.Points) {
			return nil, errors.Wrap(errors.ErrState, "previous vote without allocations")
		}
		d.Reverse = &Contribution{
			Power:       old.VotingPowerUsed,
			Votes:       1,
			Allocations: append([]uint64(nil), old.Allocations...),
		}
	}
	return &d, nil
}

// subtract removes the contribution from the cycle state.
func (c *Contribution) subtract(agg *CycleAggregates, tally *ProjectDistribution) error {
	var err error
	if agg.TotalVotingPower, err = x.SubUint64(agg.TotalVotingPower, c.Power); err != nil {
		return errors.Wrap(errors.ErrState, "total voting power below the reversed power")
	}
	if agg.VoteCount, err = x.SubUint64(agg.VoteCount, c.Votes); err != nil {
		return errors.Wrap(errors.ErrState, "vote count below zero")
	}
	if len(c.Allocations) > len(tally.Allocations) {
		return errors.Wrap(errors.ErrState, "reversed allocation has more slots than the tally")
	}
	for i, a := range c.Allocations {
		if tally.Allocations[i], err = x.SubUint64(tally.Allocations[i], a); err != nil {
			return errors.Wrapf(errors.ErrState, "allocation %d below the reversed value", i)
		}
	}
	return nil
}

// add applies the contribution to the cycle state.
func (c *Contribution) add(agg *CycleAggregates, tally *ProjectDistribution) error {
	var err error
	if agg.TotalVotingPower, err = x.AddUint64(agg.TotalVotingPower, c.Power); err != nil {
		return errors.Wrap(err, "total voting power")
	}
	if agg.VoteCount, err = x.AddUint64(agg.VoteCount, c.Votes); err != nil {
		return errors.Wrap(err, "vote count")
	}
	for len(tally.Allocations) < len(c.Allocations) {
		tally.Allocations = append(tally.Allocations, 0)
	}
	for i, a := range c.Allocations {
		if tally.Allocations[i], err = x.AddUint64(tally.Allocations[i], a); err != nil {
			return errors.Wrapf(err, "allocation %d", i)
		}
	}
	return nil
}

// Update applies the delta to given cycle state. On error the state must be
// discarded.
func (d *Delta) Update(agg *CycleAggregates, tally *ProjectDistribution) error {
	if d.Reverse != nil {
		if err := d.Reverse.subtract(agg, tally); err != nil {
			return errors.Wrap(err, "reverse")
		}
	}
	return d.Apply.add(agg, tally)
}
