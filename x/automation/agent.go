package automation

import (
	"fmt"
	"strconv"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// KeeperAgent is an adapter for keeper networks that submit a PerformMsg
// when their off chain CheckReady call returns true.
type KeeperAgent struct {
	name string
	exec *Executor
}

var _ Agent = (*KeeperAgent)(nil)

// NewKeeperAgent returns an agent identified by given name.
func NewKeeperAgent(name string, exec *Executor) *KeeperAgent {
	return &KeeperAgent{name: name, exec: exec}
}

func (a *KeeperAgent) Name() string { return a.name }

func (a *KeeperAgent) CheckReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, []byte, error) {
	return a.exec.CheckReady(ctx, db)
}

func (a *KeeperAgent) Execute(ctx harvest.Context, db harvest.CacheableKVStore, payload []byte) (*Report, error) {
	return a.exec.Execute(ctx, db, a.name, payload)
}

// TickerAgent executes a distribution at the beginning of a block, as soon
// as one is due. It implements the harvest.Ticker interface.
type TickerAgent struct {
	name string
	exec *Executor
}

var (
	_ Agent          = (*TickerAgent)(nil)
	_ harvest.Ticker = (*TickerAgent)(nil)
)

// NewTickerAgent returns a block ticker agent identified by given name.
func NewTickerAgent(name string, exec *Executor) *TickerAgent {
	return &TickerAgent{name: name, exec: exec}
}

func (a *TickerAgent) Name() string { return a.name }

func (a *TickerAgent) CheckReady(ctx harvest.Context, db harvest.ReadOnlyKVStore) (bool, []byte, error) {
	return a.exec.CheckReady(ctx, db)
}

func (a *TickerAgent) Execute(ctx harvest.Context, db harvest.CacheableKVStore, payload []byte) (*Report, error) {
	return a.exec.Execute(ctx, db, a.name, payload)
}

// Tick implements harvest.Ticker interface.
func (a *TickerAgent) Tick(ctx harvest.Context, db harvest.CacheableKVStore) harvest.TickResult {
	tags, err := a.tick(ctx, db)
	if err != nil {
		failTick(err)
	}
	return harvest.TickResult{Tags: tags}
}

// tick is similar to the Tick except it provides an error. Expected
// conditions, like the lock being held by another agent, are not errors.
func (a *TickerAgent) tick(ctx harvest.Context, db harvest.CacheableKVStore) ([]common.KVPair, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !conf.Ticker {
		return nil, nil
	}
	ready, payload, err := a.CheckReady(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, "check ready")
	}
	if !ready {
		return nil, nil
	}
	report, err := a.Execute(ctx, db, payload)
	switch {
	case err == nil:
		return reportTags(report), nil
	case errors.ErrLocked.Is(err):
		harvest.GetLogger(ctx).With("module", "automation").Debug("lock held, skipping", "agent", a.name)
		return nil, nil
	default:
		return nil, err
	}
}

// failTick is a variable so that it can be overwritten for tests.
var failTick = func(err error) {
	panic(fmt.Sprintf(`

Distribution ticker failed.

This error is most likely due to a database issue or some other instance
specific problem. The same operation most likely succeeded on other nodes,
so this instance cannot continue as it is out of sync with the network.

%+v

	`, err))
}

func reportTags(r *Report) []common.KVPair {
	return []common.KVPair{
		harvest.Tag("automation", []byte(r.Agent)),
		harvest.Tag("cycle", []byte(strconv.FormatUint(r.Cycle, 10))),
		harvest.Tag("status", []byte(r.Status.String())),
	}
}
