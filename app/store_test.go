package app

import (
	"context"
	"testing"
	"time"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/store/iavl"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func newStoreApp(t *testing.T) *StoreApp {
	t.Helper()
	qr := harvest.NewQueryRouter()
	cycle.RegisterQuery(qr)
	return NewStoreApp("harvest", iavl.MockCommitStore(), qr, context.Background()).
		WithInit(ChainInitializers(cycle.Initializer{}))
}

func TestStoreAppLifecycle(t *testing.T) {
	s := newStoreApp(t)

	s.InitChain(abci.RequestInitChain{
		ChainId:       "harvest-local",
		Time:          time.Now(),
		AppStateBytes: []byte(`{"conf": {"cycle": {"length": 50, "block_time": "5s"}}}`),
	})
	assert.Equal(t, "harvest-local", s.GetChainID())

	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})
	s.EndBlock(abci.RequestEndBlock{})
	first := s.Commit()
	assert.NotEmpty(t, first.Data)

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, first.Data, info.LastBlockAppHash)
	assert.Equal(t, "harvest", info.Data)

	res := s.Query(abci.RequestQuery{Path: "/cycle", Data: []byte("current")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, int64(1), res.Height)

	var c cycle.Cycle
	require.NoError(t, UnmarshalOneResult(res.Value, &c))
	assert.Equal(t, uint64(1), c.Number)
	assert.Equal(t, int64(50), c.Length)

	var keys ResultSet
	require.NoError(t, keys.Unmarshal(res.Key))
	assert.Equal(t, [][]byte{[]byte("current")}, keys.Results)

	prefix := s.Query(abci.RequestQuery{Path: "/cycle?prefix"})
	require.Equal(t, uint32(0), prefix.Code, prefix.Log)
	assert.Equal(t, res.Value, prefix.Value)

	missing := s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.NotEqual(t, uint32(0), missing.Code)

	badMod := s.Query(abci.RequestQuery{Path: "/cycle?range"})
	assert.NotEqual(t, uint32(0), badMod.Code)
}

func TestStoreAppGenesisOnce(t *testing.T) {
	s := newStoreApp(t)
	req := abci.RequestInitChain{
		ChainId:       "harvest-local",
		AppStateBytes: []byte(`{"conf": {"cycle": {"length": 50}}}`),
	}
	s.InitChain(req)
	assert.Panics(t, func() { s.InitChain(req) })
}

func TestStoreAppInvalidGenesis(t *testing.T) {
	cases := map[string]abci.RequestInitChain{
		"missing app state": {ChainId: "harvest-local"},
		"invalid chain id":  {ChainId: "x", AppStateBytes: []byte(`{"conf": {"cycle": {"length": 50}}}`)},
		"invalid config":    {ChainId: "harvest-local", AppStateBytes: []byte(`{"conf": {"cycle": {"length": 0}}}`)},
		"malformed json":    {ChainId: "harvest-local", AppStateBytes: []byte(`{"conf"`)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			s := newStoreApp(t)
			assert.Panics(t, func() { s.InitChain(req) })
		})
	}
}

func TestJoinResults(t *testing.T) {
	models := []harvest.Model{
		harvest.Pair([]byte("a"), []byte("1")),
		harvest.Pair([]byte("b"), []byte("2")),
	}
	joined, err := JoinResults(ResultsFromKeys(models), ResultsFromValues(models))
	require.NoError(t, err)
	assert.Equal(t, models, joined)

	_, err = JoinResults(ResultsFromKeys(models), ResultsFromValues(models[:1]))
	assert.Error(t, err)
}
