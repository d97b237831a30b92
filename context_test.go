package harvest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	ctx = WithHeight(ctx, 42)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), h)
	assert.Panics(t, func() { WithHeight(ctx, 43) })

	assert.Panics(t, func() { WithChainID(ctx, "bad") })
	ctx = WithChainID(ctx, "harvest-test")
	assert.Equal(t, "harvest-test", GetChainID(ctx))

	assert.Equal(t, DefaultLogger, GetLogger(ctx))
	logger := log.NewNopLogger().With("module", "test")
	ctx = WithLogger(ctx, logger)
	assert.Equal(t, logger, GetLogger(ctx))
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()
	_, err := BlockTime(ctx)
	require.Error(t, err)

	now := time.Now()
	ctx = WithBlockTime(ctx, now)
	got, err := BlockTime(ctx)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	assert.True(t, IsExpired(ctx, AsUnixTime(now)))
	assert.False(t, IsExpired(ctx, AsUnixTime(now).Add(time.Minute)))
}

func TestUnixDurationJSON(t *testing.T) {
	var d UnixDuration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, UnixDuration(90), d)
	require.NoError(t, d.UnmarshalJSON([]byte(`15`)))
	assert.Equal(t, 15*time.Second, d.Duration())
}
