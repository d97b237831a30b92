package distribution

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addrs(n int) []harvest.Address {
	res := make([]harvest.Address, n)
	for i := range res {
		res[i] = harvesttest.NewCondition().Address()
	}
	return res
}

func amounts(ps []Payout) []uint64 {
	res := make([]uint64, len(ps))
	for i, p := range ps {
		res[i] = p.Amount
	}
	return res
}

func TestCalculate(t *testing.T) {
	recipients := addrs(3)
	treasury, team := harvesttest.NewCondition().Address(), harvesttest.NewCondition().Address()

	cases := map[string]struct {
		total      uint64
		divisor    uint64
		fixed      []FixedShare
		recipients []harvest.Address
		tally      Tally
		wantFixed  []uint64
		wantVoted  []uint64
		wantErr    *errors.Error
	}{
		"two voters scenario": {
			total:      1000,
			divisor:    4,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{100000, 25000, 25000}, TotalVotingPower: 1500, Precision: 100},
			wantFixed:  []uint64{250},
			wantVoted:  []uint64{500, 125, 125},
		},
		"points below the full budget": {
			// A single voter with power 1000 gives 50 of 100 points to
			// the first recipient. The unassigned weight is the remainder.
			total:      1000,
			divisor:    4,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{50000, 0, 0}, TotalVotingPower: 1000, Precision: 100},
			wantFixed:  []uint64{250},
			wantVoted:  []uint64{375, 0, 375},
		},
		"points above the full budget": {
			total:      1000,
			divisor:    4,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{100, 100, 100}, TotalVotingPower: 1, Precision: 100},
			wantFixed:  []uint64{250},
			wantVoted:  []uint64{250, 250, 250},
		},
		"remainder goes to the last recipient": {
			total:      10,
			divisor:    3,
			fixed:      []FixedShare{{Address: treasury, Percent: 60}, {Address: team, Percent: 40}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1, 1}, TotalVotingPower: 3, Precision: 1},
			wantFixed:  []uint64{1, 2},
			wantVoted:  []uint64{2, 2, 3},
		},
		"last recipient without votes still takes the remainder": {
			total:      101,
			divisor:    101,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 2, 0}, TotalVotingPower: 3, Precision: 1},
			wantFixed:  []uint64{1},
			wantVoted:  []uint64{33, 66, 1},
		},
		"fixed part rounds to zero": {
			total:      3,
			divisor:    4,
			recipients: recipients[:1],
			tally:      Tally{Allocations: []uint64{9}, TotalVotingPower: 9, Precision: 1},
			wantVoted:  []uint64{3},
		},
		"denominator above uint64": {
			total:      1000,
			divisor:    4,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients[:2],
			tally:      Tally{Allocations: []uint64{1 << 62, 1 << 62}, TotalVotingPower: 1 << 41, Precision: 1 << 23},
			wantFixed:  []uint64{250},
			wantVoted:  []uint64{187, 563},
		},
		"zero divisor": {
			total:      10,
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1, 1}, TotalVotingPower: 3, Precision: 1},
			wantErr:    errors.ErrInput,
		},
		"no recipients": {
			total:   10,
			divisor: 2,
			fixed:   []FixedShare{{Address: treasury, Percent: 100}},
			wantErr: errors.ErrEmptyRecipients,
		},
		"no fixed recipients": {
			total:      10,
			divisor:    2,
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1, 1}, TotalVotingPower: 3, Precision: 1},
			wantErr:    errors.ErrEmptyRecipients,
		},
		"allocation count mismatch": {
			total:      10,
			divisor:    2,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1}, TotalVotingPower: 2, Precision: 1},
			wantErr:    errors.ErrArrayLengthMismatch,
		},
		"no weight": {
			total:      10,
			divisor:    2,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{0, 0, 0}, TotalVotingPower: 3, Precision: 1},
			wantErr:    errors.ErrNotResolved,
		},
		"no voting power": {
			total:      10,
			divisor:    2,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1, 1}, Precision: 1},
			wantErr:    errors.ErrNotResolved,
		},
		"zero precision": {
			total:      10,
			divisor:    2,
			fixed:      []FixedShare{{Address: treasury, Percent: 100}},
			recipients: recipients,
			tally:      Tally{Allocations: []uint64{1, 1, 1}, TotalVotingPower: 3},
			wantErr:    errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res, err := Calculate(tc.total, tc.divisor, tc.fixed, tc.recipients, tc.tally)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			if len(tc.wantFixed) == 0 {
				assert.Empty(t, res.FixedPayouts)
			} else {
				assert.Equal(t, tc.wantFixed, amounts(res.FixedPayouts))
			}
			assert.Equal(t, tc.wantVoted, amounts(res.VotedPayouts))
			require.NoError(t, res.Validate())
		})
	}
}

func TestCalculateConservation(t *testing.T) {
	recipients := addrs(4)
	fixed := []FixedShare{
		{Address: harvesttest.NewCondition().Address(), Percent: 33},
		{Address: harvesttest.NewCondition().Address(), Percent: 33},
		{Address: harvesttest.NewCondition().Address(), Percent: 34},
	}
	tallies := []Tally{
		{Allocations: []uint64{7, 0, 13, 29}, TotalVotingPower: 49, Precision: 1},
		{Allocations: []uint64{700, 0, 1300, 2900}, TotalVotingPower: 90, Precision: 100},
		{Allocations: []uint64{7, 0, 13, 29}, TotalVotingPower: 1, Precision: 10},
	}

	for _, tally := range tallies {
		for total := uint64(0); total < 500; total += 7 {
			for divisor := uint64(1); divisor < 6; divisor++ {
				res, err := Calculate(total, divisor, fixed, recipients, tally)
				if err != nil {
					t.Fatalf("total %d, divisor %d: %s", total, divisor, err)
				}
				if res.FixedAmount+res.VotedAmount != total {
					t.Fatalf("total %d split into %d and %d", total, res.FixedAmount, res.VotedAmount)
				}
				if got := sumPayouts(res.VotedPayouts); got != res.VotedAmount {
					t.Fatalf("total %d: voted payouts sum up to %d instead of %d", total, got, res.VotedAmount)
				}
				if got := sumPayouts(res.FixedPayouts); got != res.FixedAmount {
					t.Fatalf("total %d: fixed payouts sum up to %d instead of %d", total, got, res.FixedAmount)
				}
			}
		}
	}
}

func TestConfigurationValidation(t *testing.T) {
	a, b := harvesttest.NewCondition().Address(), harvesttest.NewCondition().Address()

	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"valid": {
			conf: Configuration{FixedSplitDivisor: 4, FixedRecipients: []FixedShare{{a, 70}, {b, 30}}},
		},
		"zero divisor": {
			conf:    Configuration{FixedRecipients: []FixedShare{{a, 100}}},
			wantErr: errors.ErrInput,
		},
		"percentages below 100": {
			conf:    Configuration{FixedSplitDivisor: 4, FixedRecipients: []FixedShare{{a, 70}, {b, 20}}},
			wantErr: errors.ErrInput,
		},
		"no fixed recipients": {
			conf:    Configuration{FixedSplitDivisor: 4},
			wantErr: errors.ErrEmpty,
		},
		"invalid address": {
			conf:    Configuration{FixedSplitDivisor: 4, FixedRecipients: []FixedShare{{harvest.Address("x"), 100}}},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, tc.wantErr.Is(err), "%+v", err)
		})
	}
}
