package hyperspeed

import (
	"fmt"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/vovakirdan/hyperspeed/internal/core"
)

// Visual characters for rendering
const (
	ObstacleChar    = '█'
	ObstacleFarChar = '▪'
	BonusChar       = '◆'
	GridChar        = '·'
	HorizonChar     = '─'
	ShipNose        = '▲'
	ShipWingL       = '◢'
	ShipWingR       = '◣'
	ReactorChar     = '*'
)

// Camera placement behind and above the craft, looking slightly down.
const (
	cameraY     = 1.5
	cameraZ     = 2.0
	cameraPitch = 20 * math.Pi / 180
	fieldOfView = 75 * math.Pi / 180
	nearPlane   = 0.5
	cellAspect  = 2.0 // terminal cells are about twice as tall as wide

	gridSpacing = 400.0 / 30
	gridRows    = 12
	gridCols    = 6
)

// projector maps apparent track positions onto the character grid.
type projector struct {
	cx, cy   float64
	focal    float64
	cos, sin float64
}

func newProjector(w, h int) projector {
	return projector{
		cx:    float64(w) / 2,
		cy:    float64(h) / 2,
		focal: float64(h) / 2 / math.Tan(fieldOfView/2),
		cos:   math.Cos(cameraPitch),
		sin:   math.Sin(cameraPitch),
	}
}

// project returns the screen position of v and its depth in front of the
// camera. ok is false for points behind the near plane.
func (p projector) project(v core.Vec3) (x, y, depth float64, ok bool) {
	dy := v.Y - cameraY
	dz := v.Z - cameraZ
	viewY := dy*p.cos - dz*p.sin
	depth = -(dy*p.sin + dz*p.cos)
	if depth < nearPlane {
		return 0, 0, 0, false
	}
	x = p.cx + v.X/depth*p.focal*cellAspect
	y = p.cy - viewY/depth*p.focal
	return x, y, depth, true
}

// Render draws the track, the entities, the craft and any overlay panel.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	proj := newProjector(dst.Width(), dst.Height())
	off := g.clock.Offset()

	g.drawGrid(dst, proj, off)
	g.drawEntities(dst, proj, off)
	g.drawShip(dst, proj)

	switch {
	case g.phase == PhaseIdle:
		drawCenteredMessage(dst, "H Y P E R S P E E D", "SPACE to start  |  ←/→ steer  |  P pause")
	case g.phase == PhaseGameOver:
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Distance: %d  |  R restart  Q quit", g.player.Score, g.distance))
	case g.paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

// drawGrid draws ground markers that scroll with the world offset.
func (g *Game) drawGrid(dst *core.Screen, proj projector, off WorldOffset) {
	if _, y, _, ok := proj.project(core.NewVec3(0, 0, -1e6)); ok {
		dst.DrawHLine(0, int(y), dst.Width(), HorizonChar, core.ColorMagenta)
	}

	phaseZ := math.Mod(off.Z, gridSpacing)
	phaseX := math.Mod(off.X, gridSpacing)
	for row := 1; row <= gridRows; row++ {
		z := -float64(row)*gridSpacing + phaseZ
		for col := -gridCols; col <= gridCols; col++ {
			x := float64(col)*gridSpacing + phaseX
			sx, sy, _, ok := proj.project(core.NewVec3(x, 0, z))
			if !ok {
				continue
			}
			dst.SetColored(int(sx), int(sy), GridChar, core.ColorBlue)
		}
	}
}

// drawEntities paints entities far to near so closer ones overlap.
func (g *Game) drawEntities(dst *core.Screen, proj projector, off WorldOffset) {
	type sprite struct {
		e          Entity
		x, y, d    float64
		halfW, hgt int
	}

	sprites := make([]sprite, 0, g.pool.Len())
	for _, e := range g.pool.entities {
		apparent := core.NewVec3(e.ApparentX(off), e.Position.Y, e.ApparentZ(off))
		x, y, d, ok := proj.project(apparent)
		if !ok {
			continue
		}
		sprites = append(sprites, sprite{
			e:     e,
			x:     x,
			y:     y,
			d:     d,
			halfW: int(e.Scale.X / 2 / d * proj.focal * cellAspect),
			hgt:   int(e.Scale.Y / d * proj.focal),
		})
	}
	sort.Slice(sprites, func(i, j int) bool { return sprites[i].d > sprites[j].d })

	for _, s := range sprites {
		cx, cy := int(s.x), int(s.y)
		switch s.e.Kind {
		case KindBonus:
			dst.SetColored(cx, cy, BonusChar, core.ColorForHue(s.e.Hue))
		case KindObstacle:
			if s.halfW == 0 && s.hgt <= 1 {
				dst.SetColored(cx, cy, ObstacleFarChar, core.ColorGray)
				continue
			}
			top := cy - s.hgt/2
			for dy := 0; dy <= s.hgt; dy++ {
				dst.DrawHLine(cx-s.halfW, top+dy, 2*s.halfW+1, ObstacleChar, core.ColorRed)
			}
		}
	}
}

// drawShip renders the craft at the origin with a flickering reactor.
func (g *Game) drawShip(dst *core.Screen, proj projector) {
	sx, sy, _, ok := proj.project(core.Vec3{})
	if !ok {
		return
	}
	x, y := int(sx), int(sy)

	dst.SetColored(x-1, y, ShipWingL, core.ColorBrightCyan)
	dst.SetColored(x, y, ShipNose, core.ColorBrightWhite)
	dst.SetColored(x+1, y, ShipWingR, core.ColorBrightCyan)

	if g.phase == PhaseRunning && (g.tickCount/3)%2 == 0 {
		dst.SetColored(x, y+1, ReactorChar, core.ColorOrange)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	titleLen := utf8.RuneCountInString(title)
	subtitleLen := utf8.RuneCountInString(subtitle)

	boxW := max(titleLen, subtitleLen) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.Panel(core.NewRect(boxX, boxY, boxW, boxH), core.ColorDefault)

	dst.DrawTextColored(boxX+(boxW-titleLen)/2, boxY+1, title, core.ColorBrightMagenta)
	dst.DrawText(boxX+(boxW-subtitleLen)/2, boxY+3, subtitle)
}
