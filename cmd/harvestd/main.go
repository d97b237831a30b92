package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harvestnet/harvest/cmd/harvestd/app"
	"github.com/harvestnet/harvest/commands/server"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	var (
		home     string
		logLevel string
	)
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "harvest")

	root := &cobra.Command{
		Use:   "harvestd",
		Short: "Harvest yield distribution ABCI application",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opt, err := log.AllowLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewFilter(logger, opt)
			return nil
		},
		SilenceUsage: true,
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".harvest")
	root.PersistentFlags().StringVar(&home, "home", defaultHome, "directory to store files under")
	root.PersistentFlags().StringVar(&logLevel, "log_level", "info", "debug, info, error or none")

	// The logger is replaced by the pre run hook, so commands receive a
	// proxy resolving it lazily.
	lazy := lazyLogger{get: func() log.Logger { return logger }}

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, lazy, &home),
		server.StartCmd(generateApp, lazy, &home),
		server.ValidateCmd(app.Initializers(), lazy),
		keeperCmd(lazy),
		&cobra.Command{
			Use:   "version",
			Short: "Print the app version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(version)
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateApp(dbPath string, logger log.Logger, debug bool) (abci.Application, error) {
	return app.Application(dbPath, logger, debug)
}

// lazyLogger forwards to the logger returned by get at the time of the
// call.
type lazyLogger struct {
	get func() log.Logger
}

func (l lazyLogger) Debug(msg string, keyvals ...interface{}) { l.get().Debug(msg, keyvals...) }
func (l lazyLogger) Info(msg string, keyvals ...interface{})  { l.get().Info(msg, keyvals...) }
func (l lazyLogger) Error(msg string, keyvals ...interface{}) { l.get().Error(msg, keyvals...) }
func (l lazyLogger) With(keyvals ...interface{}) log.Logger   { return l.get().With(keyvals...) }
