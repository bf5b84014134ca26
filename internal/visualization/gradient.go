package visualization

import (
	"fmt"
	"math"
	"strconv"
)

// Stop is a gradient color anchored at a position in [0,1]
type Stop struct {
	Position float64
	Color    string // #rrggbb
}

// Gradient is a piecewise linear color scale; stops must be sorted by position
type Gradient []Stop

// DefaultGradient runs from green (low) to dark red (high)
var DefaultGradient = Gradient{
	{0.0, "#22c55e"},
	{0.2, "#84cc16"},
	{0.4, "#facc15"},
	{0.6, "#f97316"},
	{0.8, "#ef4444"},
	{1.0, "#991b1b"},
}

// ColorAt interpolates the color at t, clamped to the first and last stop
func (g Gradient) ColorAt(t float64) string {
	if len(g) == 0 {
		return ""
	}
	if math.IsNaN(t) || t <= g[0].Position {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Position {
		return last.Color
	}

	for i := 1; i < len(g); i++ {
		lo, hi := g[i-1], g[i]
		if t > hi.Position {
			continue
		}
		frac := (t - lo.Position) / (hi.Position - lo.Position)
		r0, g0, b0 := parseHex(lo.Color)
		r1, g1, b1 := parseHex(hi.Color)
		return fmt.Sprintf("#%02x%02x%02x", lerp(r0, r1, frac), lerp(g0, g1, frac), lerp(b0, b1, frac))
	}

	return last.Color
}

func lerp(a, b int, frac float64) int {
	return int(math.Round(float64(a) + float64(b-a)*frac))
}

func parseHex(color string) (r, g, b int) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
