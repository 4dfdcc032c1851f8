package analysis

import (
	"strings"

	"github.com/san-kum/pulleysim/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait pairs two channels of a recorded run.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPhasePortrait reads channels x and y from every sample of a run. It
// returns nil when either channel is missing.
func NewPhasePortrait(r *sim.Result, x, y string) *PhasePortrait {
	xs, ys := r.Series(x), r.Series(y)
	if xs == nil || ys == nil {
		return nil
	}
	p := &PhasePortrait{XLabel: x, YLabel: y, Points: make([]Point, len(xs))}
	for i := range xs {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p
}

// Velocity turns a position series into finite-difference velocities. The
// first entry repeats the second.
func Velocity(pos, times []float64) []float64 {
	v := make([]float64, len(pos))
	for i := 1; i < len(pos) && i < len(times); i++ {
		if dt := times[i] - times[i-1]; dt > 0 {
			v[i] = (pos[i] - pos[i-1]) / dt
		}
	}
	if len(v) > 1 {
		v[0] = v[1]
	}
	return v
}

// ASCII renders the portrait as a width x height dot plot with axes where
// zero is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	for _, pt := range p.Points {
		r, c := row(pt.Y), col(pt.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if c := col(0); minX <= 0 && c >= 0 && c < width {
		for r := range canvas {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if r := row(0); minY <= 0 && r >= 0 && r < height {
		for c := range canvas[r] {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
