package app

import (
	"fmt"
	"regexp"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/\-]+$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch each transaction to the handler of its message path.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]harvest.Handler
}

var _ harvest.Registry = (*Router)(nil)
var _ harvest.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]harvest.Handler, 16),
	}
}

// Handle registers a handler for the path of given message. It panics if
// a handler is already registered for that path or the path is invalid.
func (r *Router) Handle(msg harvest.Msg, h harvest.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, returns a notFound handler. Never returns nil.
func (r *Router) handler(path string) harvest.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx harvest.Context, store harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound.
type notFoundHandler string

func (path notFoundHandler) Check(harvest.Context, harvest.KVStore, harvest.Tx) (*harvest.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}

func (path notFoundHandler) Deliver(harvest.Context, harvest.KVStore, harvest.Tx) (*harvest.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(path))
}
