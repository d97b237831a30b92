package harvesttest

import (
	"context"
	"fmt"

	"github.com/harvestnet/harvest"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions. Both Signer and
// Signers attributes are considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer harvest.Condition

	// Signers represents an authentication of multiple signers.
	Signers []harvest.Condition
}

func (a *Auth) GetConditions(harvest.Context) []harvest.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx harvest.Context, addr harvest.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx harvest.Context, permissions ...harvest.Condition) harvest.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx harvest.Context) []harvest.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]harvest.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []harvest.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx harvest.Context, addr harvest.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
