package power

import (
	"sort"
	"strings"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x"
	"github.com/harvestnet/harvest/x/cash"
)

// Strategy computes the voting power of an address.
type Strategy interface {
	CurrentPower(ctx harvest.Context, db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error)
}

// BalanceReader is the subset of cash.Controller used by strategies.
type BalanceReader interface {
	Balance(db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error)
}

var _ BalanceReader = (cash.Controller)(nil)

// Names of the strategies provided by this package.
const (
	Balance      = "balance"
	Delegated    = "delegated"
	TimeWeighted = "timeweighted"
)

// Available returns all strategies provided by this package, by name.
func Available(bank BalanceReader) map[string]Strategy {
	return map[string]Strategy{
		Balance:      BalanceStrategy{bank: bank},
		Delegated:    DelegatedStrategy{bank: bank},
		TimeWeighted: TimeWeightedStrategy{},
	}
}

// Compose returns a strategy summing the power of all named strategies.
func Compose(names []string, available map[string]Strategy) (Strategy, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrNoStrategies, "empty strategy list")
	}
	c := make(composite, 0, len(names))
	for _, n := range names {
		s, ok := available[n]
		if !ok {
			known := make([]string, 0, len(available))
			for k := range available {
				known = append(known, k)
			}
			sort.Strings(known)
			return nil, errors.Wrapf(errors.ErrInput, "unknown strategy %q, available: %s", n, strings.Join(known, ", "))
		}
		c = append(c, s)
	}
	return c, nil
}

type composite []Strategy

func (c composite) CurrentPower(ctx harvest.Context, db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error) {
	var total uint64
	for _, s := range c {
		p, err := s.CurrentPower(ctx, db, addr)
		if err != nil {
			return 0, err
		}
		if total, err = x.AddUint64(total, p); err != nil {
			return 0, errors.Wrap(err, "total power")
		}
	}
	return total, nil
}

// BalanceStrategy uses the current cash balance as the voting power. An
// account that delegated has no power of its own, the delegate holds it.
type BalanceStrategy struct {
	bank BalanceReader
}

func (s BalanceStrategy) CurrentPower(ctx harvest.Context, db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error) {
	if delegating, err := IsDelegating(db, addr); err != nil || delegating {
		return 0, err
	}
	return s.bank.Balance(db, addr)
}

// DelegatedStrategy sums the current balances of all accounts that
// delegated to the address.
type DelegatedStrategy struct {
	bank BalanceReader
}

func (s DelegatedStrategy) CurrentPower(ctx harvest.Context, db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error) {
	delegators, err := Delegators(db, addr)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, d := range delegators {
		b, err := s.bank.Balance(db, d)
		if err != nil {
			return 0, err
		}
		if total, err = x.AddUint64(total, b); err != nil {
			return 0, errors.Wrap(err, "delegated power")
		}
	}
	return total, nil
}

// TimeWeightedStrategy averages the balance over the configured window of
// blocks ending with the current one. A balance that was just received
// counts only for the blocks it was held. Like BalanceStrategy it gives no
// power to a delegating account.
type TimeWeightedStrategy struct{}

func (TimeWeightedStrategy) CurrentPower(ctx harvest.Context, db harvest.ReadOnlyKVStore, addr harvest.Address) (uint64, error) {
	if delegating, err := IsDelegating(db, addr); err != nil || delegating {
		return 0, err
	}
	height, ok := harvest.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "height not present in the context")
	}
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	cps, err := cash.Checkpoints(db, addr)
	if err != nil {
		return 0, err
	}
	return timeWeightedAverage(cps, height, conf.Window)
}

// timeWeightedAverage returns the average balance over blocks
// (height - window, height]. Balance at block h is the last checkpoint with
// a height not greater than h.
func timeWeightedAverage(cps []cash.Checkpoint, height, window int64) (uint64, error) {
	if window <= 0 {
		return 0, errors.Wrap(errors.ErrState, "window must be positive")
	}
	from := height - window // exclusive

	var (
		sum     uint64
		current uint64
		cursor  = from + 1
	)
	add := func(amount uint64, blocks int64) error {
		if blocks <= 0 || amount == 0 {
			return nil
		}
		part, err := x.MulDiv(amount, uint64(blocks), 1)
		if err != nil {
			return err
		}
		sum, err = x.AddUint64(sum, part)
		return err
	}

	for _, cp := range cps {
		if cp.Height > height {
			break
		}
		if cp.Height < cursor {
			current = cp.Amount
			continue
		}
		if err := add(current, cp.Height-cursor); err != nil {
			return 0, errors.Wrap(err, "weighted sum")
		}
		current = cp.Amount
		cursor = cp.Height
	}
	if err := add(current, height-cursor+1); err != nil {
		return 0, errors.Wrap(err, "weighted sum")
	}
	return sum / uint64(window), nil
}
