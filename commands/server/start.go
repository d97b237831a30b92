package server

import (
	"path/filepath"

	"github.com/harvestnet/harvest/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(dbPath string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd runs the ABCI socket server until the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home *string) *cobra.Command {
	var (
		bind  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := gen(filepath.Join(*home, "abci.db"), logger, debug)
			if err != nil {
				return err
			}
			svr, err := Serve(app, bind, logger)
			if err != nil {
				return err
			}
			cmn.TrapSignal(logger, func() {
				if err := svr.Stop(); err != nil {
					logger.Error("Error while stopping server", "err", err)
				}
			})
			// Run forever.
			select {}
		},
	}
	cmd.Flags().StringVar(&bind, flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().BoolVar(&debug, flagDebug, false, "call stack returned on error")
	return cmd
}

// Serve starts an ABCI socket server for the application.
func Serve(app abci.Application, addr string, logger log.Logger) (cmn.Service, error) {
	logger.Info("Starting ABCI app", "bind", addr)
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrap(err, "start server")
	}
	return svr, nil
}
