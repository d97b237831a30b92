/*
Package app wires all harvest extensions into a single ABCI application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/app"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/store/iavl"
	"github.com/harvestnet/harvest/x"
	"github.com/harvestnet/harvest/x/automation"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/harvestnet/harvest/x/coordinator"
	"github.com/harvestnet/harvest/x/custody"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/distribution"
	"github.com/harvestnet/harvest/x/power"
	"github.com/harvestnet/harvest/x/registry"
	"github.com/harvestnet/harvest/x/sigs"
	"github.com/harvestnet/harvest/x/utils"
	"github.com/harvestnet/harvest/x/voting"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "harvest"

const (
	// KeeperAgent is the name of the agent executing distributions on
	// request of an off chain keeper network.
	KeeperAgent = "keeper"
	// TickerAgent is the name of the agent executing distributions at the
	// beginning of a block.
	TickerAgent = "ticker"
)

// Extensions holds the controllers and engines of a running application.
// All of them are stateless, the state is kept in the store.
type Extensions struct {
	Bank         cash.BaseController
	Custody      custody.BaseController
	Registry     registry.BaseController
	Cycles       *cycle.Controller
	Voting       *voting.Engine
	Distribution *distribution.Engine
	Keeper       *automation.KeeperAgent
	Ticker       *automation.TickerAgent
}

// NewExtensions builds the extension graph. The distribution engine is the
// only privileged cycle advancer beside the configured advancers.
func NewExtensions() *Extensions {
	bank := cash.NewController()
	reg := registry.NewController()
	cycles := cycle.NewController(distribution.EngineAddress)
	cust := custody.NewController(bank)
	dist := distribution.NewEngine(cust, reg, bank, cycles)
	exec := automation.NewExecutor(dist)
	return &Extensions{
		Bank:         bank,
		Custody:      cust,
		Registry:     reg,
		Cycles:       cycles,
		Voting:       voting.NewEngine(reg, power.Available(bank)),
		Distribution: dist,
		Keeper:       automation.NewKeeperAgent(KeeperAgent, exec),
		Ticker:       automation.NewTickerAgent(TickerAgent, exec),
	}
}

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message still increments the sequence
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to all extension handlers.
func Router(authFn x.Authenticator, ext *Extensions) *app.Router {
	r := app.NewRouter()
	sigs.RegisterRoutes(r, authFn)
	cash.RegisterRoutes(r, authFn, ext.Bank)
	coordinator.RegisterRoutes(r, authFn)
	custody.RegisterRoutes(r, authFn, ext.Custody)
	registry.RegisterRoutes(r, authFn, ext.Registry)
	power.RegisterRoutes(r, authFn)
	cycle.RegisterRoutes(r, authFn, ext.Cycles)
	voting.RegisterRoutes(r, authFn, ext.Voting)
	distribution.RegisterRoutes(r, authFn)
	automation.RegisterRoutes(r, authFn, ext.Keeper, ext.Ticker)
	return r
}

// QueryRouter returns a router exposing every bucket of the application.
func QueryRouter() harvest.QueryRouter {
	r := harvest.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		gconf.RegisterQuery,
		cash.RegisterQuery,
		coordinator.RegisterQuery,
		custody.RegisterQuery,
		registry.RegisterQuery,
		power.RegisterQuery,
		cycle.RegisterQuery,
		voting.RegisterQuery,
		distribution.RegisterQuery,
		automation.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions. Order
// matters, the cycle must exist before the voting configuration is used.
func Initializers() harvest.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		coordinator.Initializer{},
		custody.Initializer{},
		registry.Initializer{},
		power.Initializer{},
		cycle.Initializer{},
		voting.Initializer{},
		distribution.Initializer{},
		automation.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(ext *Extensions) harvest.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, ext))
}

// Application constructs the ABCI application with the given arguments.
// An empty dbPath creates an in memory store.
func Application(dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database")
	}
	ext := NewExtensions()
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers()).
		WithLogger(logger)
	return app.NewBaseApp(store, TxDecoder, Stack(ext), ext.Ticker, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (harvest.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is removed.
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
