package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character of the play field and the color it is drawn in.
type Cell struct {
	Rune  rune
	Color Color
}

var blankCell = Cell{Rune: ' ', Color: ColorDefault}

// Screen is the play field a game draws into each frame. Cells are stored
// row-major; writes outside the field are dropped.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen returns a blank field of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

func (s *Screen) inside(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Resize changes the field size. The overlapping top-left region keeps its
// cells.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if s.cells != nil && width == s.width && height == s.height {
		return
	}

	next := make([]Cell, width*height)
	for i := range next {
		next[i] = blankCell
	}
	keepW, keepH := min(s.width, width), min(s.height, height)
	for y := 0; y < keepH; y++ {
		copy(next[y*width:y*width+keepW], s.cells[y*s.width:y*s.width+keepW])
	}

	s.width, s.height, s.cells = width, height, next
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blankCell
	}
}

// SetColored writes one cell.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if s.inside(x, y) {
		s.cells[y*s.width+x] = Cell{Rune: r, Color: c}
	}
}

// GetCell reads one cell; positions off the field read as blank.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inside(x, y) {
		return blankCell
	}
	return s.cells[y*s.width+x]
}

func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored writes text left to right from (x, y), one rune per cell.
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	for _, r := range text {
		s.SetColored(x, y, r, c)
		x++
	}
}

// DrawHLine writes length copies of r starting at (x, y).
func (s *Screen) DrawHLine(x, y, length int, r rune, c Color) {
	for i := range max(length, 0) {
		s.SetColored(x+i, y, r, c)
	}
}

// Panel blanks r and outlines it with a single-line border in c.
func (s *Screen) Panel(r Rect, c Color) {
	right, bottom := r.Right()-1, r.Bottom()-1
	for y := r.Y; y <= bottom; y++ {
		for x := r.X; x <= right; x++ {
			ch := ' '
			switch {
			case y == r.Y && x == r.X:
				ch = '┌'
			case y == r.Y && x == right:
				ch = '┐'
			case y == bottom && x == r.X:
				ch = '└'
			case y == bottom && x == right:
				ch = '┘'
			case y == r.Y || y == bottom:
				ch = '─'
			case x == r.X || x == right:
				ch = '│'
			}
			s.SetColored(x, y, ch, c)
		}
	}
}

// Line returns row y as plain text. Rows off the field read as spaces.
func (s *Screen) Line(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var b strings.Builder
	b.Grow(s.width * utf8.UTFMax)
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// String renders the field as plain text, one line per row.
func (s *Screen) String() string {
	lines := make([]string, s.height)
	for y := range lines {
		lines[y] = s.Line(y)
	}
	return strings.Join(lines, "\n")
}
