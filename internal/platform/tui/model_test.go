package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hyperspeed/internal/config"
	"github.com/vovakirdan/hyperspeed/internal/core"
	"github.com/vovakirdan/hyperspeed/internal/games/hyperspeed"
	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
	"github.com/vovakirdan/hyperspeed/internal/netplay"
	"github.com/vovakirdan/hyperspeed/internal/storage"
)

var tick = TickMsg(time.Time{})

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     7,
	}
}

// doomedConfig ends a run on the first running tick: every obstacle is in
// reach, the first hit drains the last health and the second is terminal.
func doomedConfig() config.HyperspeedConfig {
	cfg := config.DefaultHyperspeedConfig()
	cfg.Pool.Obstacles = 2
	cfg.Pool.Bonuses = 0
	cfg.Collision.Threshold = 1000
	cfg.Player.StartHealth = 10
	return cfg
}

func newTestModel(t *testing.T, cfg config.HyperspeedConfig, opts Options) Model {
	t.Helper()
	m, err := NewModel(cfg, testRuntime(), opts)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "hyperspeed.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return gm
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}

type fakeLobby struct {
	updates chan multiplayer.Response
	done    chan struct{}
	results [][2]int
}

func newFakeLobby() *fakeLobby {
	return &fakeLobby{
		updates: make(chan multiplayer.Response, 4),
		done:    make(chan struct{}),
	}
}

func (f *fakeLobby) SubmitFinalResult(score, distance int) error {
	f.results = append(f.results, [2]int{score, distance})
	return nil
}

func (f *fakeLobby) State() netplay.SessionState {
	return netplay.SessionState{ClientID: "c1", ClientName: "tester", GameID: "g1", GameName: "friday"}
}

func (f *fakeLobby) Updates() <-chan multiplayer.Response { return f.updates }
func (f *fakeLobby) Done() <-chan struct{}                { return f.done }

func TestModelStartsIdle(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})

	m = update(t, m, tick)
	if m.Game().Phase() != hyperspeed.PhaseIdle {
		t.Fatalf("phase = %v, want idle before start", m.Game().Phase())
	}

	m = update(t, m, space)
	m = update(t, m, tick)
	if m.Game().Phase() != hyperspeed.PhaseRunning {
		t.Fatalf("phase = %v, want running after space", m.Game().Phase())
	}
	if !m.State().Started {
		t.Error("State().Started = false after start")
	}
}

func TestModelSteeringLapses(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})
	m = update(t, m, space)
	m = update(t, m, tick)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tick)
	if got := m.Game().Player().LateralIntent; got != -1 {
		t.Fatalf("intent after left = %d, want -1", got)
	}
	if x := m.Game().Offset().X; x <= 0 {
		t.Errorf("offset X = %v, want > 0 after steering left", x)
	}

	for range 30 {
		m = update(t, m, tick)
	}
	if got := m.Game().Player().LateralIntent; got != 0 {
		t.Errorf("intent after release = %d, want 0", got)
	}
}

func TestModelRecordsRunOnce(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, doomedConfig(), Options{Player: "tester", Store: store})

	m = update(t, m, space)
	m = update(t, m, tick)
	if !m.State().GameOver {
		t.Fatalf("state = %+v, want game over", m.State())
	}
	for range 5 {
		m = update(t, m, tick)
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(runs))
	}
	if runs[0].Player != "tester" {
		t.Errorf("player = %q, want tester", runs[0].Player)
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	m := newTestModel(t, doomedConfig(), Options{})
	m = update(t, m, space)
	m = update(t, m, tick)
	if !m.State().GameOver {
		t.Fatalf("state = %+v, want game over", m.State())
	}

	m = update(t, m, press("r"))
	m = update(t, m, tick)

	if m.Game().Phase() != hyperspeed.PhaseIdle {
		t.Fatalf("phase after restart = %v, want idle", m.Game().Phase())
	}
	if m.State().Health != 10 {
		t.Errorf("health after restart = %d, want 10", m.State().Health)
	}
	if m.hud.health != 10 || m.hud.score != 0 {
		t.Errorf("hud = %d/%d, want reset values", m.hud.health, m.hud.score)
	}
}

func TestModelIgnoresRestartWhileRunning(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})
	m = update(t, m, space)
	m = update(t, m, tick)

	m = update(t, m, press("r"))
	m = update(t, m, tick)
	if m.Game().Phase() != hyperspeed.PhaseRunning {
		t.Errorf("phase = %v, want running", m.Game().Phase())
	}
}

func TestModelPauseToggle(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})
	m = update(t, m, space)
	m = update(t, m, tick)

	m = update(t, m, press("p"))
	m = update(t, m, tick)
	if !m.State().Paused {
		t.Fatal("not paused after p")
	}
	z := m.Game().Offset().Z
	m = update(t, m, tick)
	if m.Game().Offset().Z != z {
		t.Error("world moved while paused")
	}

	m = update(t, m, press("p"))
	m = update(t, m, tick)
	if m.State().Paused {
		t.Error("still paused after second p")
	}
}

func TestModelSubmitsToLobby(t *testing.T) {
	lobby := newFakeLobby()
	m := newTestModel(t, doomedConfig(), Options{Lobby: lobby})

	m = update(t, m, space)
	m = update(t, m, tick)
	m = update(t, m, tick)

	if len(lobby.results) != 1 {
		t.Fatalf("submitted %d results, want 1", len(lobby.results))
	}
	st := m.State()
	if lobby.results[0] != [2]int{st.Score, st.Distance} {
		t.Errorf("submitted %v, want [%d %d]", lobby.results[0], st.Score, st.Distance)
	}
}

func TestModelShowsLobbyScores(t *testing.T) {
	lobby := newFakeLobby()
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{Lobby: lobby})

	if !strings.Contains(m.View(), "friday") {
		t.Error("view does not name the lobby game")
	}

	m = update(t, m, lobbyMsg(multiplayer.Response{
		Method: multiplayer.MethodScoreSubmit,
		Game: &multiplayer.GameView{
			ID:       "g1",
			GameName: "friday",
			Scores: []multiplayer.ScoreView{
				{ClientID: "c2", ClientName: "bob", Score: 20},
				{ClientID: "c3", ClientName: "alice", Score: 45},
			},
		},
	}))

	view := m.View()
	if !strings.Contains(view, "1. alice 45") {
		t.Errorf("view missing leader, got:\n%s", view)
	}
	if !strings.Contains(view, "2. bob 20") {
		t.Errorf("view missing runner-up, got:\n%s", view)
	}

	m = update(t, m, lobbyClosedMsg{})
	if !strings.Contains(m.View(), "lobby disconnected") {
		t.Error("view does not report a closed lobby")
	}
}

func TestModelHUD(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})
	view := m.View()

	for _, want := range []string{"HP", "50/50", "Score", "Distance", "Best"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if got := strings.Count(view, "\n") + 1; got != testRuntime().ScreenH {
		t.Errorf("view has %d lines, want %d", got, testRuntime().ScreenH)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, config.DefaultHyperspeedConfig(), Options{})
	next, cmd := m.Update(press("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if !next.(Model).IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if next.View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestSessionScoreboardOnlyWhenStill(t *testing.T) {
	s, err := NewSessionModel(config.DefaultHyperspeedConfig(), testRuntime(), Options{Store: newTestStore(t)})
	if err != nil {
		t.Fatalf("NewSessionModel() error = %v", err)
	}
	send := func(msg tea.Msg) {
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}
	tab := tea.KeyMsg{Type: tea.KeyTab}

	send(tab)
	if !s.ShowingScores() {
		t.Fatal("scoreboard not shown at idle")
	}
	send(tea.KeyMsg{Type: tea.KeyEsc})
	if s.ShowingScores() {
		t.Fatal("scoreboard still shown after esc")
	}

	send(space)
	send(tick)
	send(tab)
	if s.ShowingScores() {
		t.Error("scoreboard shown while running")
	}
}

func TestSessionKeepsTickingBehindScoreboard(t *testing.T) {
	s, err := NewSessionModel(config.DefaultHyperspeedConfig(), testRuntime(), Options{})
	if err != nil {
		t.Fatalf("NewSessionModel() error = %v", err)
	}
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)

	_, cmd := s.Update(tick)
	if cmd == nil {
		t.Error("tick behind the scoreboard did not schedule the next tick")
	}
}
