package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
)

// SessionModel is the top-level model for a local or SSH session.
// It hosts one game view and swaps the scoreboard over it on request.
type SessionModel struct {
	game     Model
	board    *ScoreboardModel
	width    int
	height   int
	quitting bool
}

// NewSessionModel creates a session around a fresh game view.
func NewSessionModel(cfg config.HyperspeedConfig, runtime core.RuntimeConfig, opts Options) (SessionModel, error) {
	game, err := NewModel(cfg, runtime, opts)
	if err != nil {
		return SessionModel{}, err
	}
	return SessionModel{
		game:   game,
		width:  runtime.ScreenW,
		height: runtime.ScreenH,
	}, nil
}

// Init starts the game view.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		if m.board != nil {
			m.updateBoard(msg)
		}
		return m.updateGame(msg)
	}

	// Keys go to whichever screen is up; everything else keeps the game's
	// tick and lobby loops alive.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.board != nil {
		cmd := m.updateBoard(msg)
		switch {
		case m.board.IsQuitting():
			m.quitting = true
			return m, tea.Quit
		case m.board.IsGoingBack():
			m.board = nil
		}
		return m, cmd
	}

	return m.updateGame(msg)
}

func (m *SessionModel) updateBoard(msg tea.Msg) tea.Cmd {
	next, cmd := m.board.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.board = &sm
	}
	return cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.wantScores {
		m.game.wantScores = false
		board := NewScoreboardModel(m.game.opts.Store, m.width, m.height)
		m.board = &board
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}
	return m.game.View()
}

// ShowingScores reports whether the scoreboard is up.
func (m SessionModel) ShowingScores() bool {
	return m.board != nil
}

// Game returns the hosted game view.
func (m SessionModel) Game() Model {
	return m.game
}

// Run plays hyperspeed in the current terminal until the user quits.
func Run(cfg config.HyperspeedConfig, runtime core.RuntimeConfig, opts Options) error {
	model, err := NewSessionModel(cfg, runtime, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
