package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperspeed/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagSSHLogLevel string
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Start the hyperspeed SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own run. Runs are recorded under the SSH
user name, so everyone shares the same scoreboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.hyperspeed/host_key

Examples:
  hyperspeed ssh                           # Listen on :23234
  hyperspeed ssh --listen :2222
  hyperspeed ssh --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "listen", ":23234", "SSH server address (host:port)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	sshCmd.Flags().StringVar(&flagSSHLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runSSH(_ *cobra.Command, _ []string) {
	gameCfg := mustLoadConfig()
	level := mustParseLevel(flagSSHLogLevel)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	store := openStoreOrWarn()

	server, err := tui.NewSSHServer(cfg, gameCfg, store, tui.NewSSHLogger(level))
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Starting hyperspeed SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(ctx)
	stop()
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}
