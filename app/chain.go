package app

import (
	"reflect"

	"github.com/harvestnet/harvest"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []harvest.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewSavepoint().OnDeliver(),
	).WithHandler(
	  router,
	)
*/
func ChainDecorators(chain ...harvest.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...harvest.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]harvest.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{chain: newChain}
}

// cutoffNil will in-place remove all all nil values from given slice.
func cutoffNil(ds []harvest.Decorator) []harvest.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h harvest.Handler) harvest.Handler {
	// The top of the chain is executed first, so wrapping starts from the
	// last decorator.
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    harvest.Decorator
	next harvest.Handler
}

var _ harvest.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
