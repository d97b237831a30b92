package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/client"
	"github.com/harvestnet/harvest/cmd/harvestd/app"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// keeperCmd runs an off chain keeper against a remote node. The signing
// key is read from the HARVEST_KEEPER_KEY environment variable unless
// given with the --key flag.
func keeperCmd(logger log.Logger) *cobra.Command {
	var (
		node  string
		key   string
		agent string
	)
	cmd := &cobra.Command{
		Use:   "keeper",
		Short: "Submit distribution executions whenever a cycle ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("HARVEST_KEEPER_KEY")
			}
			signer, err := crypto.PrivKeyFromHex(key)
			if err != nil {
				return errors.Wrap(err, "keeper key")
			}

			conn := client.NewHTTPConnection(node)
			if err := conn.Start(); err != nil {
				return errors.Wrap(errors.ErrNetwork, err.Error())
			}
			defer func() { _ = conn.Stop() }()
			c := client.NewClient(conn)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				cancel()
			}()

			gen, err := c.Genesis(ctx)
			if err != nil {
				return err
			}
			headers := make(chan client.Header, 8)
			if err := c.SubscribeHeaders(ctx, headers); err != nil {
				return err
			}

			logger.Info("keeper started", "node", node, "chain", gen.ChainID, "address", signer.Address())
			k := client.NewKeeper(c, signer, gen.ChainID, agent, newTx, logger)
			if err := k.Run(ctx, headers); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&node, "node", "tcp://localhost:26657", "tendermint RPC address")
	cmd.Flags().StringVar(&key, "key", "", "hex encoded secp256k1 private key")
	cmd.Flags().StringVar(&agent, "agent", app.KeeperAgent, "name of the agent performing executions")
	return cmd
}

func newTx(msg harvest.Msg) client.SignableTx {
	return &app.Tx{Msg: msg}
}
