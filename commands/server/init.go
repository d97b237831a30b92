package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/harvestnet/harvest/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

const flagForce = "force"

// GenOptions can parse command-line arguments to generate default
// app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to the genesis file created by
// `tendermint init` in the home directory.
func InitCmd(gen GenOptions, logger log.Logger, home *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [ticker] [owner]",
		Short: "Initialize app_state in the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			genFile := filepath.Join(*home, "config", "genesis.json")
			if err := InitGenesis(genFile, gen, args, force); err != nil {
				return err
			}
			logger.Info("app_state written", "path", genFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	return cmd
}

// genesisDoc involves some tendermint-specific structures we don't want to
// parse, so we just grab it into a raw object format, so we can add one
// field.
type genesisDoc map[string]json.RawMessage

// InitGenesis sets the app_state of the genesis file to the output of gen.
// An existing app_state is only replaced when force is set.
func InitGenesis(genFile string, gen GenOptions, args []string, force bool) error {
	raw, err := ioutil.ReadFile(genFile)
	if err != nil {
		return errors.Wrap(err, "read genesis, did you run `tendermint init`?")
	}
	var doc genesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !force {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set")
	}

	state, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "generate app_state")
	}
	doc["app_state"] = state

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	info, err := os.Stat(genFile)
	if err != nil {
		return errors.Wrap(err, "stat genesis")
	}
	return ioutil.WriteFile(genFile, out, info.Mode())
}
