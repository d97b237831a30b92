package cash

import (
	"encoding/json"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	addr := harvesttest.NewCondition().Address()
	genesis := `{
		"conf": {"cash": {"owner": "", "ticker": "HRV"}},
		"cash": [{"address": "` + addr.String() + `", "amount": 4321}]
	}`
	var opts harvest.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(harvesttest.Context(0), opts, db))

	got, err := NewController().Balance(db, addr)
	require.NoError(t, err)
	require.Equal(t, uint64(4321), got)

	var conf Configuration
	require.NoError(t, gconf.Load(db, "cash", &conf))
	require.Equal(t, "HRV", conf.Ticker)
}

func TestGenesisInvalidTicker(t *testing.T) {
	var opts harvest.Options
	require.NoError(t, json.Unmarshal([]byte(`{"conf": {"cash": {"ticker": "x"}}}`), &opts))
	require.Error(t, Initializer{}.FromGenesis(harvesttest.Context(0), opts, store.MemStore()))
}
