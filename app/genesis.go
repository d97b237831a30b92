package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// Genesis is the subset of the tendermint genesis file the application
// needs to initialize its state.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState harvest.Options `json:"app_state"`
}

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...harvest.Initializer) harvest.Initializer {
	return chainInitializer{inits: inits}
}

type chainInitializer struct {
	inits []harvest.Initializer
}

// FromGenesis passes opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(ctx harvest.Context, opts harvest.Options, kv harvest.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(ctx, opts, kv); err != nil {
			return err
		}
	}
	return nil
}
