package registry

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

const optKey = "registry"

type genesis struct {
	Recipients []harvest.Address `json:"recipients"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harvest.Initializer = Initializer{}

// FromGenesis loads the configuration and the initial recipient set.
func (Initializer) FromGenesis(ctx harvest.Context, opts harvest.Options, db harvest.KVStore) error {
	if err := gconf.InitConfig(db, opts, "registry", &Configuration{}); err != nil {
		return err
	}
	var g genesis
	if err := opts.ReadOptions(optKey, &g); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	r := Recipients{Addresses: g.Recipients}
	if _, err := NewRecipientsBucket().Put(db, activeKey, &r); err != nil {
		return errors.Wrap(err, "recipients")
	}
	return nil
}
