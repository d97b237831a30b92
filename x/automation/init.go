package automation

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harvest.Initializer = Initializer{}

// FromGenesis will parse initial configuration from genesis and save it to
// the database.
func (Initializer) FromGenesis(ctx harvest.Context, opts harvest.Options, db harvest.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, "automation", &conf)
}
