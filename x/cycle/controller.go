package cycle

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// TransitionHook can veto a cycle transition.
type TransitionHook interface {
	CanTransition(ctx harvest.Context, db harvest.ReadOnlyKVStore, current *Cycle) (bool, error)
}

// TransitionHookFunc adapts a function to the TransitionHook interface.
type TransitionHookFunc func(ctx harvest.Context, db harvest.ReadOnlyKVStore, current *Cycle) (bool, error)

func (fn TransitionHookFunc) CanTransition(ctx harvest.Context, db harvest.ReadOnlyKVStore, current *Cycle) (bool, error) {
	return fn(ctx, db, current)
}

// Controller advances cycles.
type Controller struct {
	// privileged addresses can always advance, independent of the
	// configuration.
	privileged []harvest.Address
	hooks      []TransitionHook
}

// NewController returns a controller that allows given addresses to
// advance a complete cycle, in addition to the configured advancers.
func NewController(privileged ...harvest.Address) *Controller {
	return &Controller{privileged: privileged}
}

// AddHook registers a hook consulted before every transition.
func (c *Controller) AddHook(h TransitionHook) {
	c.hooks = append(c.hooks, h)
}

// CurrentCycle returns the cycle in progress.
func CurrentCycle(db harvest.ReadOnlyKVStore) (*Cycle, error) {
	var c Cycle
	if err := NewCycleBucket().One(db, currentKey, &c); err != nil {
		return nil, errors.Wrap(err, "current cycle")
	}
	return &c, nil
}

func currentHeight(ctx harvest.Context) (int64, error) {
	h, ok := harvest.GetHeight(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "height not present in the context")
	}
	return h, nil
}

// IsCycleComplete returns true if the current cycle reached its end
// height.
func IsCycleComplete(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, error) {
	c, err := CurrentCycle(db)
	if err != nil {
		return false, err
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return false, err
	}
	return height >= c.EndHeight(), nil
}

// GetCycleInfo returns a snapshot of the current cycle.
func GetCycleInfo(ctx harvest.Context, db harvest.ReadOnlyKVStore) (*CycleInfo, error) {
	c, err := CurrentCycle(db)
	if err != nil {
		return nil, err
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	return newCycleInfo(c, height, conf.BlockTime), nil
}

func (c *Controller) authorized(db harvest.ReadOnlyKVStore, caller harvest.Address) (bool, error) {
	for _, a := range c.privileged {
		if a.Equals(caller) {
			return true, nil
		}
	}
	conf, err := loadConf(db)
	if err != nil {
		return false, err
	}
	for _, a := range conf.Advancers {
		if a.Equals(caller) {
			return true, nil
		}
	}
	return false, nil
}

// AdvanceCycle completes the current cycle and starts the next one at the
// current height.
func (c *Controller) AdvanceCycle(ctx harvest.Context, db harvest.KVStore, caller harvest.Address) (*CycleInfo, error) {
	ok, err := c.authorized(db, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s cannot advance the cycle", caller)
	}

	cur, err := CurrentCycle(db)
	if err != nil {
		return nil, err
	}
	height, err := currentHeight(ctx)
	if err != nil {
		return nil, err
	}
	if height < cur.EndHeight() {
		return nil, errors.Wrapf(errors.ErrCycleTransition, "cycle %d ends at %d", cur.Number, cur.EndHeight())
	}
	for _, h := range c.hooks {
		ok, err := h.CanTransition(ctx, db, cur)
		if err != nil {
			return nil, errors.Wrap(err, "transition hook")
		}
		if !ok {
			return nil, errors.Wrap(errors.ErrCycleTransition, "rejected by transition hook")
		}
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if _, err := NewHistoryBucket().Put(db, orm.EncodeSequence(cur.Number), cur); err != nil {
		return nil, errors.Wrap(err, "history")
	}
	next := Cycle{
		Number:      cur.Number + 1,
		StartHeight: height,
		Length:      conf.Length,
	}
	if _, err := NewCycleBucket().Put(db, currentKey, &next); err != nil {
		return nil, errors.Wrap(err, "save cycle")
	}

	harvest.GetLogger(ctx).With("module", "cycle").Info("cycle advanced",
		"cycle", next.Number, "start", next.StartHeight, "end", next.EndHeight())
	return newCycleInfo(&next, height, conf.BlockTime), nil
}

// PastCycle returns a completed cycle by its number.
func PastCycle(db harvest.ReadOnlyKVStore, number uint64) (*Cycle, error) {
	var c Cycle
	if err := NewHistoryBucket().One(db, orm.EncodeSequence(number), &c); err != nil {
		return nil, err
	}
	return &c, nil
}
