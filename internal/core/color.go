package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// hueBands maps the upper half of the color wheel onto terminal colors.
// Bonus hues live in [0.5, 1.0].
var hueBands = []Color{
	ColorBrightCyan,    // 0.50
	ColorBrightBlue,    // 0.60
	ColorBlue,          // 0.70
	ColorBrightMagenta, // 0.80
	ColorMagenta,       // 0.90
	ColorBrightRed,     // 1.00
}

// ColorForHue picks the closest terminal color for a hue in [0, 1].
// Hues below 0.5 fold to the first band.
func ColorForHue(hue float64) Color {
	h := Clamp(hue, 0.5, 1.0)
	idx := Round((h - 0.5) * 10)
	return hueBands[Clamp(idx, 0, len(hueBands)-1)]
}
