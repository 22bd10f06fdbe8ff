// hyperspeed is an endless runner for the terminal with an online lobby.
//
// Usage:
//
//	hyperspeed play              - Play in this terminal
//	hyperspeed play --lobby URL  - Play and report the final score to a lobby game
//	hyperspeed serve             - Start the websocket lobby server
//	hyperspeed ssh               - Start the SSH server for remote play
//	hyperspeed scores            - Show recorded runs and lobby scores
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for a reproducible track
//	--db <path>      - Set database path (default: ~/.hyperspeed/hyperspeed.db)
//	--config <path>  - Load a custom hyperspeed.yaml
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hyperspeed",
	Short: "Hyperspeed - dodge obstacles at hyperspeed in your terminal",
	Long: `Hyperspeed is an endless runner: steer the craft down a scrolling lane,
dodge obstacles and collect bonuses until your health runs out.

Available commands:
  play     - Play in this terminal, optionally in a lobby game
  serve    - Start the websocket lobby server
  ssh      - Start the SSH server for remote play
  scores   - View recorded runs and lobby scores

Examples:
  hyperspeed play
  hyperspeed play --lobby ws://localhost:8080/ws --name ada
  hyperspeed serve --addr :8080
  hyperspeed ssh --listen :23234
  hyperspeed scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hyperspeed/hyperspeed.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom hyperspeed.yaml")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
}

// mustLoadConfig loads the game config or exits.
func mustLoadConfig() config.HyperspeedConfig {
	cfg, err := config.LoadHyperspeed(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStoreOrWarn opens the scores database. A failure only disables history.
func openStoreOrWarn() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// mustParseLevel parses a --log-level value or exits.
func mustParseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", s)
		os.Exit(1)
	}
	return level
}
