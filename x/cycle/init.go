package cycle

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harvest.Initializer = Initializer{}

// FromGenesis loads the configuration and starts the first cycle at the
// genesis height.
func (Initializer) FromGenesis(ctx harvest.Context, opts harvest.Options, db harvest.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, "cycle", &conf); err != nil {
		return err
	}
	height, _ := harvest.GetHeight(ctx)
	first := Cycle{Number: 1, StartHeight: height, Length: conf.Length}
	if _, err := NewCycleBucket().Put(db, currentKey, &first); err != nil {
		return errors.Wrap(err, "first cycle")
	}
	return nil
}
