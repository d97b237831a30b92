package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harvest.Initializer = Initializer{}

// FromGenesis loads the configuration and creates an idle lock.
func (Initializer) FromGenesis(ctx harvest.Context, opts harvest.Options, db harvest.KVStore) error {
	if err := gconf.InitConfig(db, opts, "coordinator", &Configuration{}); err != nil {
		return err
	}
	if err := saveLock(db, &ExecutionLock{Status: StatusIdle}); err != nil {
		return err
	}
	return saveStats(db, &ExecutionStats{})
}
