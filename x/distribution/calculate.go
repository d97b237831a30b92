package distribution

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x"
)

// Tally is the vote outcome of a cycle.
type Tally struct {
	// Allocations hold the weighted allocation of every recipient, in the
	// order of the recipients.
	Allocations      []uint64
	TotalVotingPower uint64
	// Precision is the allocation scale of the cycle. A voter giving all
	// of its power to a single recipient adds power * Precision.
	Precision uint64
}

// denominator returns the factors of the voted split denominator,
// TotalVotingPower * Precision. Voters can assign more than max points in
// total, in which case the allocations exceed that product and their sum
// is used so that payouts never exceed the voted amount.
func (t Tally) denominator() ([]uint64, error) {
	var weight uint64
	for _, a := range t.Allocations {
		var err error
		if weight, err = x.AddUint64(weight, a); err != nil {
			return nil, errors.Wrap(err, "allocation total")
		}
	}
	if weight == 0 || t.TotalVotingPower == 0 {
		return nil, errors.Wrap(errors.ErrNotResolved, "no weighted allocation")
	}
	if t.Precision == 0 {
		return nil, errors.Wrap(errors.ErrInput, "precision must be positive")
	}
	if q := weight / t.Precision; q > t.TotalVotingPower || (q == t.TotalVotingPower && weight%t.Precision != 0) {
		return []uint64{weight}, nil
	}
	return []uint64{t.TotalVotingPower, t.Precision}, nil
}

// Calculate splits total between the fixed and the voted recipients. It has
// no side effects.
//
// The fixed part is total / divisor and is split according to the fixed
// share percentages. The rest is split between the recipients in
// proportion to allocation / (TotalVotingPower * Precision). In both groups
// the last recipient receives the remainder of the truncating divisions.
func Calculate(
	total uint64,
	divisor uint64,
	fixed []FixedShare,
	recipients []harvest.Address,
	tally Tally,
) (*DistributionResult, error) {
	if divisor == 0 {
		return nil, errors.Wrap(errors.ErrInput, "fixed split divisor must be positive")
	}
	if len(recipients) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyRecipients, "no active recipients")
	}
	if len(tally.Allocations) != len(recipients) {
		return nil, errors.Wrapf(errors.ErrArrayLengthMismatch,
			"%d allocations for %d recipients", len(tally.Allocations), len(recipients))
	}

	fixedAmount := total / divisor
	res := DistributionResult{
		TotalYield:  total,
		FixedAmount: fixedAmount,
		VotedAmount: total - fixedAmount,
	}

	if fixedAmount > 0 {
		if len(fixed) == 0 {
			return nil, errors.Wrap(errors.ErrEmptyRecipients, "no fixed recipients")
		}
		weights := make([]uint64, len(fixed))
		for i, f := range fixed {
			weights[i] = uint64(f.Percent)
		}
		amounts, err := split(fixedAmount, weights, []uint64{100})
		if err != nil {
			return nil, errors.Wrap(err, "fixed split")
		}
		for i, f := range fixed {
			res.FixedPayouts = append(res.FixedPayouts, Payout{Recipient: f.Address, Amount: amounts[i]})
		}
	}

	den, err := tally.denominator()
	if err != nil {
		return nil, err
	}
	amounts, err := split(res.VotedAmount, tally.Allocations, den)
	if err != nil {
		return nil, errors.Wrap(err, "voted split")
	}
	for i, r := range recipients {
		res.VotedPayouts = append(res.VotedPayouts, Payout{Recipient: r, Amount: amounts[i]})
	}
	return &res, nil
}

// split returns amount * weights[i] / product(den) for every but the last
// weight. The last element is what remains of the amount.
func split(amount uint64, weights []uint64, den []uint64) ([]uint64, error) {
	res := make([]uint64, len(weights))
	var paid uint64
	for i := 0; i < len(weights)-1; i++ {
		share, err := x.Fraction([]uint64{amount, weights[i]}, den)
		if err != nil {
			return nil, err
		}
		res[i] = share
		paid += share
	}
	rest, err := x.SubUint64(amount, paid)
	if err != nil {
		return nil, errors.Wrap(err, "shares exceed the amount")
	}
	res[len(res)-1] = rest
	return res, nil
}
