package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
	"github.com/vovakirdan/hyperspeed/internal/netplay"
)

var (
	flagLobbyAddr string
	flagLogLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket lobby server",
	Long: `Start the lobby server players report their scores to.

Clients connect to ws://<host><addr>/ws. Every submitted score is
broadcast to the other pilots of the same lobby game and stored in the
scores database.

Examples:
  hyperspeed serve                 # Listen on the configured address (:8080)
  hyperspeed serve --addr :9000
  hyperspeed serve --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagLobbyAddr, "addr", "", "Listen address (default from config lobby.address)")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	level := mustParseLevel(flagLogLevel)

	addr := flagLobbyAddr
	if addr == "" {
		addr = cfg.Lobby.Address
	}

	var saver multiplayer.ScoreSaver
	store := openStoreOrWarn()
	if store != nil {
		saver = store
	}

	serverCfg := netplay.ServerConfigFrom(cfg.Lobby)
	serverCfg.Logger = netplay.NewLogger(level)
	server := netplay.NewServer(serverCfg, saver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Starting hyperspeed lobby on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(ctx, addr)
	stop()
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}
