package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/pulleysim/internal/analysis"
	"github.com/san-kum/pulleysim/internal/mechanics"
)

const (
	background   = "#0a0a0a"
	ropeColor    = "#d4d4d4"
	pulleyColor  = "#7aa2f7"
	anchorColor  = "#9ece6a"
	floorColor   = "#444444"
	defaultLoad  = "#e0af68"
	sandboxWidth = 800.0
)

// LoadSide is the drawn edge length of a load of the given mass.
func LoadSide(mass float64) float64 {
	return 16 + 4*math.Sqrt(math.Max(0, mass))
}

// SandboxSVG draws a sandbox snapshot scaled into a width x height image.
// A broken rig is drawn without ropes.
func SandboxSVG(s mechanics.SandboxState, width, height int) string {
	floor := s.FloorY
	if floor == 0 {
		floor = mechanics.DefaultFloorY
	}
	scale := math.Min(float64(width)/sandboxWidth, float64(height)/(floor+50))
	px := func(v float64) float64 { return v * scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="2"/>
`, width, height, width, height, background, px(floor), width, px(floor), floorColor)

	if !s.IsBroken {
		sb.WriteString(`<g stroke="` + ropeColor + `" stroke-width="1.5">` + "\n")
		for _, l := range mechanics.RopeLines(s) {
			fmt.Fprintf(&sb, `<line id="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n",
				html.EscapeString(l.ID), px(l.X1), px(l.Y1), px(l.X2), px(l.Y2))
		}
		sb.WriteString("</g>\n")
	}

	for _, p := range s.FixedPulleys {
		fmt.Fprintf(&sb, `<circle id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			html.EscapeString(p.ID), px(p.X), px(p.Y), px(p.Radius), pulleyColor)
	}
	for _, p := range s.MovablePulleys {
		fmt.Fprintf(&sb, `<circle id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			html.EscapeString(p.ID), px(p.X), px(p.Y), px(p.Radius), pulleyColor)
	}
	for _, a := range s.Anchors {
		fmt.Fprintf(&sb, `<rect id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			html.EscapeString(a.ID), px(a.X-6), px(a.Y-6), px(12), px(12), anchorColor)
	}
	for _, l := range s.Loads {
		side := LoadSide(l.Mass)
		color := l.Color
		if color == "" {
			color = defaultLoad
		}
		fmt.Fprintf(&sb, `<rect id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			html.EscapeString(l.ID), px(l.X-side/2), px(l.Y-side), px(side), px(side), html.EscapeString(color))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#ffffff" font-size="10" text-anchor="middle">%gkg</text>`+"\n",
			px(l.X), px(l.Y-side/2)+3, l.Mass)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG creates an SVG from trajectory data
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
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

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, html.EscapeString(strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
