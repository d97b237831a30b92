package distribution

import (
	"fmt"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/harvestnet/harvest/x/custody"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/registry"
	"github.com/harvestnet/harvest/x/voting"
)

// EngineAddress receives the realized yield before it is paid out. It is
// also the caller advancing the cycle.
var EngineAddress = harvest.NewCondition("dist", "engine", nil).Address()

// Custody is the source of the distributed yield.
type Custody interface {
	AccruedSurplus(db harvest.ReadOnlyKVStore) (uint64, error)
	RealizeSurplus(ctx harvest.Context, db harvest.KVStore, amount uint64, receiver harvest.Address) error
}

var _ Custody = (custody.Controller)(nil)

// Registry provides the recipients of the voted part.
type Registry interface {
	ActiveRecipients(db harvest.ReadOnlyKVStore) ([]harvest.Address, error)
	ApplyPendingChanges(ctx harvest.Context, db harvest.KVStore) (int, error)
}

var _ Registry = (registry.Controller)(nil)

// Bank moves the realized yield to the recipients.
type Bank interface {
	MoveCoins(ctx harvest.Context, db harvest.KVStore, src, dest harvest.Address, amount uint64) error
}

var _ Bank = (cash.Controller)(nil)

// CycleAdvancer completes the distributed cycle.
type CycleAdvancer interface {
	AdvanceCycle(ctx harvest.Context, db harvest.KVStore, caller harvest.Address) (*cycle.CycleInfo, error)
}

var _ CycleAdvancer = (*cycle.Controller)(nil)

// Engine executes distributions.
type Engine struct {
	custody  Custody
	registry Registry
	bank     Bank
	cycles   CycleAdvancer
}

// NewEngine returns an engine using given collaborators. The cycle
// controller must allow EngineAddress to advance cycles.
func NewEngine(c Custody, r Registry, b Bank, cycles CycleAdvancer) *Engine {
	return &Engine{custody: c, registry: r, bank: b, cycles: cycles}
}

// IsReady returns true if a distribution can be executed. Otherwise a
// reason is returned. It never modifies the state.
func (e *Engine) IsReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, string, error) {
	_, reason, err := e.prepare(ctx, db)
	if err != nil {
		return false, "", err
	}
	return reason == "", reason, nil
}

// plan is everything required to execute a distribution.
type plan struct {
	cycle      uint64
	surplus    uint64
	recipients []harvest.Address
	tally      Tally
}

// prepare checks in order all distribution conditions. When a condition
// is not met, a human readable reason is returned.
func (e *Engine) prepare(ctx harvest.Context, db harvest.ReadOnlyKVStore) (*plan, string, error) {
	complete, err := cycle.IsCycleComplete(ctx, db)
	if err != nil {
		return nil, "", errors.Wrap(err, "cycle")
	}
	if !complete {
		return nil, "cycle not complete", nil
	}
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return nil, "", err
	}

	agg, err := voting.GetAggregates(db, cur.Number)
	if err != nil {
		return nil, "", errors.Wrap(err, "vote aggregates")
	}
	if agg.VoteCount == 0 {
		return nil, "no votes cast", nil
	}

	recipients, err := e.registry.ActiveRecipients(db)
	if err != nil {
		return nil, "", errors.Wrap(err, "recipients")
	}
	if len(recipients) == 0 {
		return nil, "no active recipients", nil
	}

	tally, err := voting.GetTally(db, cur.Number)
	if err != nil {
		return nil, "", errors.Wrap(err, "tally")
	}
	weight, err := tally.Total()
	if err != nil {
		return nil, "", err
	}
	if weight == 0 {
		return nil, "no weighted allocation", nil
	}
	allocations := make([]uint64, len(recipients))
	copy(allocations, tally.Allocations)

	conf, err := loadConf(db)
	if err != nil {
		return nil, "", err
	}
	surplus, err := e.custody.AccruedSurplus(db)
	if err != nil {
		return nil, "", errors.Wrap(err, "surplus")
	}
	if surplus == 0 || surplus < conf.MinYield {
		return nil, fmt.Sprintf("insufficient yield: %d, minimum %d", surplus, conf.MinYield), nil
	}

	p := plan{
		cycle:      cur.Number,
		surplus:    surplus,
		recipients: recipients,
		tally: Tally{
			Allocations:      allocations,
			TotalVotingPower: agg.TotalVotingPower,
			Precision:        agg.Precision,
		},
	}
	return &p, "", nil
}

// ExecuteDistribution pays out the accrued surplus of the completed cycle
// and advances the cycle. All conditions are validated again. When an
// error is returned, the state must be discarded.
func (e *Engine) ExecuteDistribution(ctx harvest.Context, db harvest.KVStore) (*DistributionResult, error) {
	p, reason, err := e.prepare(ctx, db)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return nil, errors.Wrap(errors.ErrNotResolved, reason)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	res, err := Calculate(p.surplus, conf.FixedSplitDivisor, conf.FixedRecipients, p.recipients, p.tally)
	if err != nil {
		return nil, err
	}
	res.Cycle = p.cycle

	if err := e.custody.RealizeSurplus(ctx, db, res.TotalYield, EngineAddress); err != nil {
		return nil, errors.Wrap(err, "realize surplus")
	}
	for _, payouts := range [][]Payout{res.FixedPayouts, res.VotedPayouts} {
		for _, po := range payouts {
			if po.Amount == 0 {
				continue
			}
			if err := e.bank.MoveCoins(ctx, db, EngineAddress, po.Recipient, po.Amount); err != nil {
				return nil, errors.Wrapf(err, "pay %s", po.Recipient)
			}
		}
	}

	applied, err := e.registry.ApplyPendingChanges(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, "registry changes")
	}
	next, err := e.cycles.AdvanceCycle(ctx, db, EngineAddress)
	if err != nil {
		return nil, errors.Wrap(err, "advance cycle")
	}
	if _, err := NewRecordBucket().Put(db, orm.EncodeSequence(res.Cycle), res); err != nil {
		return nil, errors.Wrap(err, "save record")
	}

	harvest.GetLogger(ctx).With("module", "distribution").Info("distribution executed",
		"cycle", res.Cycle,
		"yield", res.TotalYield,
		"fixed", res.FixedAmount,
		"voted", res.VotedAmount,
		"registry_changes", applied,
		"next_cycle", next.Number)
	return res, nil
}
