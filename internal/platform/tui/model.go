package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
	"github.com/vovakirdan/hyperspeed/internal/games/hyperspeed"
	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
	"github.com/vovakirdan/hyperspeed/internal/netplay"
	"github.com/vovakirdan/hyperspeed/internal/storage"
)

// DefaultPlayer is stored with runs when no name is given.
const DefaultPlayer = "pilot"

// LobbyLink is the part of a lobby connection the game view needs.
// *netplay.Client satisfies it.
type LobbyLink interface {
	hyperspeed.ResultSubmitter
	State() netplay.SessionState
	Updates() <-chan multiplayer.Response
	Done() <-chan struct{}
}

var _ LobbyLink = (*netplay.Client)(nil)

// Options configures a game view.
type Options struct {
	Player        string         // Name stored with finished runs
	Store         *storage.Store // Run history; nil disables saving
	Lobby         LobbyLink      // Lobby game to report to; nil plays offline
	ScreenshotDir string         // Defaults to ~/.hyperspeed/screenshots
}

type lobbyMsg multiplayer.Response

type lobbyClosedMsg struct{}

// Model is the Bubble Tea model for one hyperspeed game view.
type Model struct {
	game      *hyperspeed.Game
	runtime   core.RuntimeConfig
	fixedSeed bool
	screen    *core.Screen
	opts      Options

	keys  KeyMap
	help  help.Model
	bar   progress.Model
	hud   *hudState
	steer steering

	input      core.InputFrame
	state      core.GameState
	saved      bool // Whether the current run has been recorded
	quitting   bool
	wantScores bool
}

// NewModel builds a game view. A zero runtime.Seed picks a time-based seed
// for every run; any other seed replays the same track on restart.
func NewModel(cfg config.HyperspeedConfig, runtime core.RuntimeConfig, opts Options) (Model, error) {
	fixedSeed := runtime.Seed != 0
	if !fixedSeed {
		runtime.Seed = time.Now().UnixNano()
	}
	if runtime.TickRate <= 0 {
		runtime.TickRate = core.DefaultConfig().TickRate
	}
	if opts.Player == "" {
		opts.Player = DefaultPlayer
	}

	game, err := hyperspeed.New(cfg, runtime)
	if err != nil {
		return Model{}, err
	}

	best := 0
	if opts.Store != nil {
		if hs, err := opts.Store.HighScore(); err == nil {
			best = hs
		}
	}

	hud := newHUD(game.State(), best)
	game.SetListener(hud.listener())
	if opts.Lobby != nil {
		game.SetResultSubmitter(opts.Lobby)
		hud.lobby = &lobbyBoard{gameName: opts.Lobby.State().GameName}
	}

	h := help.New()
	h.Width = runtime.ScreenW

	return Model{
		game:      game,
		runtime:   runtime,
		fixedSeed: fixedSeed,
		screen:    core.NewScreen(runtime.ScreenW, playfieldHeight(runtime.ScreenH)),
		opts:      opts,
		keys:      DefaultKeyMap(),
		help:      h,
		bar:       newHealthBar(),
		hud:       hud,
		steer:     newSteering(runtime.TickRate),
		input:     core.NewInputFrame(),
		state:     game.State(),
	}, nil
}

func playfieldHeight(screenH int) int {
	return max(screenH-hudHeight, 1)
}

// Init starts the tick loop and, when online, the lobby listener.
func (m Model) Init() tea.Cmd {
	if m.opts.Lobby != nil {
		return tea.Batch(tickCmd(m.runtime.TickRate), waitForLobby(m.opts.Lobby))
	}
	return tickCmd(m.runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()

	case lobbyMsg:
		m.hud.applyLobby(multiplayer.Response(msg))
		return m, waitForLobby(m.opts.Lobby)

	case lobbyClosedMsg:
		if m.hud.lobby != nil {
			m.hud.lobby.closed = true
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Scores):
		// The run keeps going while the scoreboard is up, so only offer it
		// when nothing is moving.
		if !m.state.Started || m.state.Paused || m.state.GameOver {
			m.wantScores = true
		}
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionLeft:
		m.steer.Press(-1)
	case core.ActionRight:
		m.steer.Press(1)
	case core.ActionRestart:
		if m.state.GameOver {
			m.input.Set(action)
		}
	case core.ActionNone:
	default:
		m.input.Set(action)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.input.Has(core.ActionRestart) && m.state.GameOver {
		m.restart()
		return m, tickCmd(m.runtime.TickRate)
	}

	switch m.steer.Tick() {
	case -1:
		m.input.Set(core.ActionLeft)
	case 1:
		m.input.Set(core.ActionRight)
	}

	result := m.game.Step(m.input)
	m.state = result.State

	if m.state.GameOver && !m.saved {
		m.recordRun()
		m.saved = true
	}

	m.input.Clear()
	return m, tickCmd(m.runtime.TickRate)
}

func (m *Model) restart() {
	if !m.fixedSeed {
		m.runtime.Seed = time.Now().UnixNano()
	}
	m.game.Reset(m.runtime)
	m.state = m.game.State()
	m.hud.reset(m.state)
	m.steer.Release()
	m.saved = false
	m.input.Clear()
}

// recordRun stores the finished run and surfaces a failed lobby submission.
func (m *Model) recordRun() {
	if m.opts.Store != nil {
		//nolint:errcheck // Best-effort save, game continues regardless
		m.opts.Store.SaveRun(m.opts.Player, m.state.Score, m.state.Distance)
	}
	if err := m.game.SubmitErr(); err != nil && m.hud.lobby != nil {
		m.hud.lobby.err = err.Error()
	}
}

func waitForLobby(l LobbyLink) tea.Cmd {
	return func() tea.Msg {
		select {
		case resp, ok := <-l.Updates():
			if !ok {
				return lobbyClosedMsg{}
			}
			return lobbyMsg(resp)
		case <-l.Done():
			return lobbyClosedMsg{}
		}
	}
}

func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".hyperspeed", "screenshots")
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the play field and the HUD below it.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	bottom := m.hud.lobbyLine()
	if bottom == "" {
		bottom = m.help.View(m.keys)
	}
	return strings.Join([]string{
		RenderScreen(m.screen),
		m.hud.statusLine(m.bar),
		bottom,
	}, "\n")
}

// Game exposes the running game.
func (m Model) Game() *hyperspeed.Game {
	return m.game
}

// State returns the game state seen on the last tick.
func (m Model) State() core.GameState {
	return m.state
}

// IsQuitting returns true if the user asked to leave.
func (m Model) IsQuitting() bool {
	return m.quitting
}
