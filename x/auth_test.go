package x_test

import (
	"context"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/x"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := harvesttest.NewCondition()
	b := harvesttest.NewCondition()
	c := harvesttest.NewCondition()

	ctxAuth := &harvesttest.CtxAuth{Key: "auth"}
	ctx := ctxAuth.SetConditions(context.Background(), a)
	auth := x.ChainAuth(ctxAuth, &harvesttest.Auth{Signers: []harvest.Condition{b}})

	assert.Equal(t, []harvest.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, a, x.MainSigner(ctx, auth))
	assert.Equal(t, []harvest.Address{a.Address(), b.Address()}, x.GetAddresses(ctx, auth))

	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.False(t, auth.HasAddress(ctx, c.Address()))
	assert.True(t, x.HasAnyAddress(ctx, auth, []harvest.Address{c.Address(), a.Address()}))
	assert.False(t, x.HasAnyAddress(ctx, auth, []harvest.Address{c.Address()}))
	assert.True(t, x.HasAllConditions(ctx, auth, []harvest.Condition{a, b}))
	assert.False(t, x.HasAllConditions(ctx, auth, []harvest.Condition{a, c}))

	assert.Nil(t, x.MainSigner(context.Background(), ctxAuth))
}
