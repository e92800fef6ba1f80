/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Command relay runs the eth_* JSON-RPC translation core as a standalone
// HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/relaymesh/eth-relay/internal/config"
	"github.com/relaymesh/eth-relay/internal/consensusstub"
	"github.com/relaymesh/eth-relay/internal/eth"
	"github.com/relaymesh/eth-relay/internal/ledgerstate"
	"github.com/relaymesh/eth-relay/internal/logging"
	"github.com/relaymesh/eth-relay/internal/mirrorclient"
	"github.com/relaymesh/eth-relay/internal/ports"
	"github.com/relaymesh/eth-relay/internal/rpcserver"
)

var (
	configFile string
	devMode    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "relay",
		Short: "eth_* JSON-RPC translation relay",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the JSON-RPC HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP port to bind (overrides config)")
	cmd.Flags().String("chain-id", "", "chain id hex returned by eth_chainId (overrides config)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "serve against an in-memory fixture mirror/consensus backend instead of live endpoints")
	viper.BindPFlag("server_port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("chain_id", cmd.Flags().Lookup("chain-id"))
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.ServerPort = port
	}
	if chainID, _ := cmd.Flags().GetString("chain-id"); chainID != "" {
		cfg.ChainID = chainID
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("constructing logger: %w", err)
	}
	defer logger.Sync()

	mirror, consensus, precheck := wireBackends(cfg, logger)

	service := eth.New(mirror, consensus, precheck, cfg.ChainID, cfg.MaxFeeHistoryBlockCount, logger)
	gateway := rpcserver.NewGateway(service, logger)

	server, err := rpcserver.New(fmt.Sprintf(":%d", cfg.ServerPort), gateway, logger)
	if err != nil {
		return fmt.Errorf("constructing rpc server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// wireBackends selects the live Mirror Node HTTP client and the fail-loud
// consensusstub in production, or the in-memory fixture mirror and
// fake consensus/precheck stand-ins under --dev, for local runs and demos
// without a real Mirror Node / Consensus SDK deployment available.
func wireBackends(cfg *config.Config, logger *zap.Logger) (ports.MirrorPort, ports.ConsensusPort, ports.Precheck) {
	if devMode {
		logger.Warn("running in --dev mode: mirror and consensus backends are in-memory fixtures")
		fixtureConsensus := ledgerstate.NewFixtureConsensus()
		return ledgerstate.NewFixtureMirror(), fixtureConsensus, fixtureConsensus
	}

	mirror := mirrorclient.New(cfg.MirrorNodeURL)
	// No consensus-SDK client ships in this module: the real native-protocol
	// client a production deployment dials (equivalent to a Hedera-style
	// consensus SDK) is supplied by the operator and must satisfy
	// ports.ConsensusPort/ports.Precheck. consensusstub fails loudly until
	// one is wired here.
	logger.Warn("no production ConsensusPort wired; pass --dev or provide a ConsensusPort implementation")
	stub := consensusstub.New()
	return mirror, stub, stub
}
