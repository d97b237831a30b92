package client

import (
	"context"
	"testing"

	"github.com/harvestnet/harvest/harvesttest/assert"
)

func TestStatus(t *testing.T) {
	c := NewLocalClient(node)
	status, err := c.Status(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("Unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := NewLocalClient(node)
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	maxHeight := status.Height

	header, err := c.Header(ctx, maxHeight)
	assert.Nil(t, err)
	assert.Equal(t, maxHeight, header.Height)

	if _, err := c.Header(ctx, maxHeight+20); err == nil {
		t.Fatalf("Expected error for non-existent height")
	}
}

func TestGenesis(t *testing.T) {
	c := NewLocalClient(node)
	gen, err := c.Genesis(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, getChainID(), gen.ChainID)
	if len(gen.AppState) == 0 {
		t.Fatal("app state not set")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := NewLocalClient(node)
	ctx, cancel := context.WithCancel(context.Background())

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	headers := make(chan Header, 5)
	assert.Nil(t, c.SubscribeHeaders(ctx, headers))

	// A block may be committed before the subscription starts.
	first, ok := <-headers
	assert.Equal(t, true, ok)
	if first.Height <= lastHeight {
		t.Fatalf("want header after %d, got %d", lastHeight, first.Height)
	}
	lastHeight = first.Height

	// following headers must be in order
	for i := 0; i < 2; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, lastHeight+1, h.Height)
		lastHeight++
	}

	// cancel the context and ensure the channel is closed
	cancel()
	for range headers {
	}
}
