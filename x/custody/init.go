package custody

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harvest.Initializer = Initializer{}

// FromGenesis loads the configuration and creates an empty vault.
func (Initializer) FromGenesis(ctx harvest.Context, opts harvest.Options, db harvest.KVStore) error {
	if err := gconf.InitConfig(db, opts, "custody", &Configuration{}); err != nil {
		return err
	}
	return saveVault(db, &Vault{})
}
