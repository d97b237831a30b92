package custody

import (
	"encoding/json"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/store"
	"github.com/stretchr/testify/require"
)

func saveConfForTest(db gconf.Store, c *Configuration) error {
	return gconf.Save(db, "custody", c)
}

func TestGenesis(t *testing.T) {
	owner := harvesttest.NewCondition().Address()
	source := harvesttest.NewCondition().Address()
	genesis := `{"conf": {"custody": {"owner": "` + owner.String() + `", "yield_source": "` + source.String() + `"}}}`
	var opts harvest.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(harvesttest.Context(0), opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	require.Equal(t, source, conf.YieldSource)

	v, err := loadVault(db)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v.Principal)
}
