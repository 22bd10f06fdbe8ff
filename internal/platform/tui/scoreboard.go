package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hyperspeed/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores     = 100 // Max rows to load per board
	boardChrome   = 9   // Title, tabs, stats, borders and help
	minBoardRows  = 3
	dateColumnFmt = "Jan 02 15:04"
)

// Board selects which table the scoreboard shows.
type Board int

const (
	BoardRuns Board = iota
	BoardLobby
)

var boardTitles = []string{"Local runs", "Lobby scores"}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists recorded runs and lobby submissions.
type ScoreboardModel struct {
	store     *storage.Store
	board     Board
	rows      []table.Row
	stats     *storage.RunStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard showing the local runs first.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		store:  store,
		board:  BoardRuns,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

func (m ScoreboardModel) columns() []table.Column {
	if m.board == BoardLobby {
		return []table.Column{
			{Title: "#", Width: 4},
			{Title: "Game", Width: 14},
			{Title: "Pilot", Width: 14},
			{Title: "Score", Width: 7},
			{Title: "Distance", Width: 9},
			{Title: "Date", Width: 13},
		}
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Pilot", Width: 16},
		{Title: "Score", Width: 7},
		{Title: "Distance", Width: 9},
		{Title: "Date", Width: 13},
	}
}

func (m ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, minBoardRows)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload queries the store for the current board and rebuilds the table.
func (m *ScoreboardModel) reload() {
	m.rows = nil
	m.loadErr = nil
	m.stats = nil

	if m.store != nil {
		if m.board == BoardLobby {
			m.rows, m.loadErr = lobbyRows(m.store)
		} else {
			m.rows, m.loadErr = runRows(m.store)
			if m.loadErr == nil {
				m.stats, m.loadErr = m.store.Stats()
			}
		}
	}

	m.table = m.createTable()
	m.table.GotoTop()
}

func runRows(store *storage.Store) ([]table.Row, error) {
	runs, err := store.TopRuns(maxScores)
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.Player,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Distance),
			r.CreatedAt.Format(dateColumnFmt),
		}
	}
	return rows, nil
}

func lobbyRows(store *storage.Store) ([]table.Row, error) {
	scores, err := store.RecentLobbyScores(maxScores)
	if err != nil {
		return nil, err
	}
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			s.GameName,
			s.ClientName,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Distance),
			s.CreatedAt.Format(dateColumnFmt),
		}
	}
	return rows, nil
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextBoard):
			m.board = (m.board + 1) % Board(len(boardTitles))
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard):
			m.board = (m.board + Board(len(boardTitles)) - 1) % Board(len(boardTitles))
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("HYPERSPEED SCORES", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boxStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if line := m.statsLine(); line != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(line))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(boardTitles))
	for i, title := range boardTitles {
		if Board(i) == m.board {
			tabs[i] = activeStyle.Render(title)
		} else {
			tabs[i] = tabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Score history is disabled.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load scores: " + m.loadErr.Error())
	case len(m.rows) == 0 && m.board == BoardLobby:
		return emptyStyle.Render("No lobby scores yet.\nHost one with `hyperspeed serve`.")
	case len(m.rows) == 0:
		return emptyStyle.Render("No runs recorded yet.\nFinish a run to set a high score!")
	}
	return m.table.View()
}

func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.Runs == 0 {
		return ""
	}
	return fmt.Sprintf("%d runs  best %d  avg %.1f  longest %d  total distance %d",
		m.stats.Runs, m.stats.HighScore, m.stats.AvgScore, m.stats.LongestRun, m.stats.TotalDistance)
}

// Board returns the table currently shown.
func (m ScoreboardModel) Board() Board {
	return m.board
}

// Rows returns the number of rows on the current board.
func (m ScoreboardModel) Rows() int {
	return len(m.rows)
}

// IsGoingBack returns true if the user wants to return to the game.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunScoreboard shows the scoreboard on its own until the user leaves.
func RunScoreboard(store *storage.Store, width, height int) error {
	model := NewScoreboardModel(store, width, height)
	model.keys.Back.SetKeys("esc", "b", "enter")

	p := tea.NewProgram(
		scoreboardOnly{model},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// scoreboardOnly quits where an embedded scoreboard would hand back.
type scoreboardOnly struct {
	ScoreboardModel
}

func (s scoreboardOnly) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.ScoreboardModel.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		s.ScoreboardModel = sm
	}
	if s.IsGoingBack() {
		return s, tea.Quit
	}
	return s, cmd
}
