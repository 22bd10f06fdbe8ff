package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
	"github.com/vovakirdan/hyperspeed/internal/netplay"
	"github.com/vovakirdan/hyperspeed/internal/platform/tui"
)

const lobbyDialTimeout = 10 * time.Second

var (
	flagLobby    string
	flagName     string
	flagGameID   string
	flagGameName string
	flagOnline   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play hyperspeed",
	Long: `Start a run in this terminal.

Controls:
  Space/Enter  - Start
  Left/A       - Steer left
  Right/D      - Steer right
  P/Esc        - Pause
  R            - Restart (after game over)
  Tab          - Scoreboard (before start, paused or after game over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

With --lobby the final score of every run is submitted to a lobby game.
Use --game-id to join an existing game; otherwise a new game named by
--create is created and joined.

Examples:
  hyperspeed play
  hyperspeed play --seed 42
  hyperspeed play --lobby ws://localhost:8080/ws --name ada
  hyperspeed play --online --create friday
  hyperspeed play --lobby ws://localhost:8080/ws --name bob --game-id 1f0c...`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLobby, "lobby", "", "Lobby websocket URL (empty plays offline)")
	playCmd.Flags().BoolVar(&flagOnline, "online", false, "Use the lobby URL from config (lobby.url)")
	playCmd.Flags().StringVar(&flagName, "name", defaultPlayerName(), "Pilot name for runs and lobby scores")
	playCmd.Flags().StringVar(&flagGameID, "game-id", "", "Lobby game to join")
	playCmd.Flags().StringVar(&flagGameName, "create", "hyperspeed", "Name of the lobby game to create when --game-id is empty")
}

func defaultPlayerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return tui.DefaultPlayer
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store := openStoreOrWarn()
	opts := tui.Options{Player: flagName, Store: store}

	lobbyURL := flagLobby
	if lobbyURL == "" && flagOnline {
		lobbyURL = cfg.Lobby.URL
	}

	var lobby *netplay.Client
	if lobbyURL != "" {
		client, err := joinLobby(cfg.Lobby, lobbyURL)
		if err != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		lobby = client
		opts.Lobby = client
	}

	runErr := tui.Run(cfg, runtime, opts)

	if lobby != nil {
		lobby.Close()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// joinLobby connects, registers the pilot name and enters a lobby game.
func joinLobby(cfg config.LobbyConfig, url string) (*netplay.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lobbyDialTimeout)
	defer cancel()

	client, err := netplay.Dial(ctx, url, cfg.WriteWait)
	if err != nil {
		return nil, err
	}
	if err := client.SetName(ctx, flagName); err != nil {
		client.Close()
		return nil, err
	}

	if flagGameID != "" {
		_, err = client.Join(ctx, flagGameID)
	} else {
		_, err = client.Create(ctx, flagGameName)
	}
	if err != nil {
		client.Close()
		return nil, err
	}

	st := client.State()
	fmt.Printf("Joined lobby game %q (%s) as %s\n", st.GameName, st.GameID, st.ClientName)
	return client, nil
}
