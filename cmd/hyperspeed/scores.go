package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hyperspeed/internal/platform/tui"
	"github.com/vovakirdan/hyperspeed/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresGame  string
	flagInteractive bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded runs and lobby scores",
	Long: `Display the best local runs and the most recent lobby scores.

Examples:
  hyperspeed scores
  hyperspeed scores --limit 25
  hyperspeed scores --game 1f0c...   # latest score per pilot in one lobby game
  hyperspeed scores -i               # browse interactively`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows per table")
	scoresCmd.Flags().StringVar(&flagScoresGame, "game", "", "Show the standings of one lobby game")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if flagScoresGame != "" {
		printGameStandings(store, flagScoresGame)
		return
	}

	printRuns(store)
	fmt.Println()
	printRecentLobbyScores(store)
}

func printRuns(store *storage.Store) {
	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Println(titleStyle.Render("Best runs"))
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println("Play 'hyperspeed play' to set the first high score!")
		return
	}

	t := newTable("Rank", "Pilot", "Score", "Distance", "Date")
	for i, r := range runs {
		t.Row(
			fmt.Sprint(i+1),
			r.Player,
			fmt.Sprint(r.Score),
			fmt.Sprint(r.Distance),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t.Render())

	if stats, err := store.Stats(); err == nil && stats.Runs > 0 {
		fmt.Printf("%d runs, best %d, average %.1f, longest %d, last played %s\n",
			stats.Runs, stats.HighScore, stats.AvgScore, stats.LongestRun,
			stats.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func printRecentLobbyScores(store *storage.Store) {
	scores, err := store.RecentLobbyScores(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving lobby scores: %v\n", err)
		return
	}

	fmt.Println(titleStyle.Render("Recent lobby scores"))
	if len(scores) == 0 {
		fmt.Println("No lobby scores recorded yet.")
		return
	}

	t := newTable("Game", "Pilot", "Score", "Distance", "Date")
	for _, s := range scores {
		t.Row(
			s.GameName,
			s.ClientName,
			fmt.Sprint(s.Score),
			fmt.Sprint(s.Distance),
			s.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println(t.Render())
}

func printGameStandings(store *storage.Store, gameID string) {
	scores, err := store.LobbyScores(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving lobby scores: %v\n", err)
		return
	}
	if len(scores) == 0 {
		fmt.Printf("No scores recorded for lobby game %s.\n", gameID)
		return
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Standings - %s", scores[0].GameName)))
	t := newTable("Rank", "Pilot", "Score", "Distance")
	for i, s := range scores {
		t.Row(fmt.Sprint(i+1), s.ClientName, fmt.Sprint(s.Score), fmt.Sprint(s.Distance))
	}
	fmt.Println(t.Render())
}
