package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hyperspeed/internal/core"
	"github.com/vovakirdan/hyperspeed/internal/games/hyperspeed"
	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
)

// hudHeight is the number of rows reserved below the play field.
const hudHeight = 2

const (
	healthBarWidth = 20
	lobbyTopN      = 3
)

var (
	hudLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hudValue = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	hudLobby = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	hudError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// lobbyBoard is the latest view of the lobby game this run reports to.
type lobbyBoard struct {
	gameName string
	pilots   int
	scores   []multiplayer.ScoreView
	err      string
	closed   bool
}

// hudState mirrors the values shown under the play field.
// It is fed by game events, so it is shared by pointer across model copies.
type hudState struct {
	maxHealth int
	health    int
	score     int
	distance  int
	best      int
	recycled  int
	lobby     *lobbyBoard
}

func newHUD(state core.GameState, best int) *hudState {
	h := &hudState{best: best}
	h.reset(state)
	return h
}

// reset reloads the run values after a restart. Best and lobby survive.
func (h *hudState) reset(state core.GameState) {
	h.maxHealth = state.Health
	h.health = state.Health
	h.score = state.Score
	h.distance = state.Distance
	h.recycled = 0
}

func (h *hudState) listener() hyperspeed.ListenerFuncs {
	return hyperspeed.ListenerFuncs{
		OnHealth:   func(v int) { h.health = v },
		OnScore:    func(v int) { h.score = v },
		OnDistance: func(v int) { h.distance = v },
		OnGameOver: func(score, _ int) {
			if score > h.best {
				h.best = score
			}
		},
		OnRecycle: func(hyperspeed.Entity) { h.recycled++ },
	}
}

func (h *hudState) healthFraction() float64 {
	if h.maxHealth <= 0 {
		return 0
	}
	return core.Clamp(float64(h.health)/float64(h.maxHealth), 0, 1)
}

// applyLobby folds a lobby broadcast into the board.
func (h *hudState) applyLobby(resp multiplayer.Response) {
	if h.lobby == nil {
		h.lobby = &lobbyBoard{}
	}
	if resp.Method == multiplayer.MethodError {
		h.lobby.err = resp.Message
		return
	}
	if resp.Game == nil {
		return
	}
	if resp.Game.GameName != "" {
		h.lobby.gameName = resp.Game.GameName
	}
	switch resp.Method {
	case multiplayer.MethodJoin:
		h.lobby.pilots = len(resp.Game.Clients)
	case multiplayer.MethodScoreSubmit:
		scores := append([]multiplayer.ScoreView(nil), resp.Game.Scores...)
		sort.SliceStable(scores, func(i, j int) bool {
			if scores[i].Score != scores[j].Score {
				return scores[i].Score > scores[j].Score
			}
			return scores[i].Distance > scores[j].Distance
		})
		h.lobby.scores = scores
		if len(resp.Game.Clients) > h.lobby.pilots {
			h.lobby.pilots = len(resp.Game.Clients)
		}
	}
	h.lobby.err = ""
}

func (h *hudState) statusLine(bar progress.Model) string {
	parts := []string{
		hudLabel.Render("HP ") + bar.ViewAs(h.healthFraction()) +
			hudValue.Render(fmt.Sprintf(" %d/%d", h.health, h.maxHealth)),
		hudLabel.Render("Score ") + hudValue.Render(fmt.Sprint(h.score)),
		hudLabel.Render("Distance ") + hudValue.Render(fmt.Sprint(h.distance)),
		hudLabel.Render("Best ") + hudValue.Render(fmt.Sprint(h.best)),
	}
	return strings.Join(parts, "  ")
}

// lobbyLine summarizes the lobby game. It is empty when offline.
func (h *hudState) lobbyLine() string {
	if h.lobby == nil {
		return ""
	}
	b := h.lobby
	if b.closed {
		return hudError.Render("lobby disconnected")
	}
	if b.err != "" {
		return hudError.Render("lobby: " + b.err)
	}

	line := fmt.Sprintf("Lobby %q  %d pilots", b.gameName, b.pilots)
	if len(b.scores) > 0 {
		top := make([]string, 0, lobbyTopN)
		for i, s := range b.scores {
			if i == lobbyTopN {
				break
			}
			top = append(top, fmt.Sprintf("%d. %s %d", i+1, s.ClientName, s.Score))
		}
		line += "  |  " + strings.Join(top, "  ")
	}
	return hudLobby.Render(line)
}

func newHealthBar() progress.Model {
	return progress.New(
		progress.WithGradient("#ff5f5f", "#5fff87"),
		progress.WithWidth(healthBarWidth),
		progress.WithoutPercentage(),
	)
}
