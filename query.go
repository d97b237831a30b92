package harvest

import (
	"fmt"
	"strings"
)

// Query modes, passed as the part of the ABCI path after the question mark.
const (
	// KeyQueryMod returns the model stored under the exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every model whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a single key value result of a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model for key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for one path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of a package to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths, such as /cycle or /distributions, to the
// handler serving them.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router with no routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds h to path. Paths must be absolute and can be bound only
// once, any other use panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("query path %q is not absolute", path))
	}
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
