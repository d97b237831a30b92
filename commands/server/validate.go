package server

import (
	"context"
	"encoding/json"
	"io/ioutil"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/store"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// ValidateCmd checks that given genesis files initialize the application.
func ValidateCmd(ini harvest.Initializer, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis.json>...",
		Short: "Validate the app_state of genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateGenesis(ini, args); err != nil {
				return err
			}
			logger.Info("genesis valid", "files", len(args))
			return nil
		},
	}
}

// ValidateGenesis runs the initializer against the app_state of every file.
func ValidateGenesis(ini harvest.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini harvest.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var genesis struct {
		ChainID string          `json:"chain_id"`
		State   harvest.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(genesis.State) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	ctx := harvest.WithHeight(context.Background(), 0)
	if harvest.IsValidChainID(genesis.ChainID) {
		ctx = harvest.WithChainID(ctx, genesis.ChainID)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(ctx, genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
