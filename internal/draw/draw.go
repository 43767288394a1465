// Package draw renders the game to a terminal: a half-block pixel canvas,
// shape primitives, and a chunked ANSI writer tuned for SSH sessions.
package draw

// Point is a position in logical canvas coordinates.
type Point struct {
	X, Y float64
}

// Shades orders the block-element characters from empty to solid, for
// rendering fractional intensity in a single cell.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel picks the shade for an intensity in [0, 1]. Values outside
// the range clamp to the endpoints.
func ShadeLevel(intensity float64) rune {
	switch {
	case intensity <= 0:
		return Shades[0]
	case intensity >= 1:
		return Shades[len(Shades)-1]
	default:
		return Shades[int(intensity*float64(len(Shades)-1))]
	}
}

// Block-element characters used by the canvas renderer and HUD meters.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLeftHalf  = '▌'
	BlockRightHalf = '▐'
)

// Screen holds terminal dimensions with a precomputed center.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
