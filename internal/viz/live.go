package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pulleysim/internal/export"
	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/models"
	"github.com/san-kum/pulleysim/internal/scheduler"
	"github.com/san-kum/pulleysim/internal/sim"
)

const (
	canvasCols      = 60
	canvasRows      = 22
	historyCapacity = 240
	frameRate       = 60
	maxSubstep      = 1.0 / 120
	minTimeScale    = 0.125
	maxTimeScale    = 8
	sandboxWidth    = 800.0
)

// Rig is a machine the live view can drive and tune.
type Rig interface {
	sim.Machine
	sim.Configurable
	Reset()
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a live view.
type Options struct {
	Name       string
	Mode       mechanics.RealityMode
	SampleRate float64
	Theme      string
}

// Model is the Bubble Tea model of the live view. Frame timestamps pass
// through a scheduler.Clock, so a stalled frame never feeds the
// integrators a large dt.
type Model struct {
	rig     Rig
	name    string
	mode    mechanics.RealityMode
	clock   *scheduler.Clock
	sampler *scheduler.Sampler
	history *scheduler.History
	labels  []string
	tension []int

	canvas *Canvas
	theme  Theme
	styles styles

	params   []string
	selected int
	status   string

	spring          harmonica.Spring
	gauge, gaugeVel float64
	showHelp        bool
}

func NewModel(rig Rig, opts Options) Model {
	labels := rig.Labels()
	var tension []int
	for _, name := range []string{"tension", "tension1", "tension2"} {
		if i := sim.Index(labels, name); i >= 0 {
			tension = append(tension, i)
		}
	}

	params := make([]string, 0)
	for k := range rig.GetParams() {
		params = append(params, k)
	}
	sort.Strings(params)

	theme := GetTheme(opts.Theme)
	m := Model{
		rig:     rig,
		name:    opts.Name,
		mode:    opts.Mode,
		clock:   scheduler.NewClock(),
		sampler: scheduler.NewSampler(opts.SampleRate),
		history: scheduler.NewHistory(historyCapacity),
		labels:  labels,
		tension: tension,
		canvas:  NewCanvas(canvasCols, canvasRows),
		theme:   theme,
		styles:  newStyles(theme),
		params:  params,
		spring:  harmonica.NewSpring(harmonica.FPS(frameRate), 6, 0.7),
	}
	m.history.Push(rig.Sample())
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.clock.Paused = !m.clock.Paused
		case "r":
			m.reset()
		case "m":
			if m.mode == mechanics.Ideal {
				m.mode = mechanics.Real
			} else {
				m.mode = mechanics.Ideal
			}
		case "+", "=":
			m.clock.TimeScale = math.Min(maxTimeScale, m.clock.TimeScale*2)
		case "-", "_":
			m.clock.TimeScale = math.Max(minTimeScale, m.clock.TimeScale/2)
		case "tab":
			m.cycleParam(1)
		case "shift+tab":
			m.cycleParam(-1)
		case "up", "k":
			m.adjustParam(1.1)
		case "down", "j":
			m.adjustParam(1 / 1.1)
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		cols := clampInt(msg.Width-56, 24, 100)
		rows := clampInt(msg.Height-4, 12, 40)
		m.canvas = NewCanvas(cols, rows)
	case TickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// advance steps the rig by the clock's slice of a frame, in substeps no
// longer than maxSubstep.
func (m *Model) advance(now time.Time) {
	dt := m.clock.Tick(now)
	if dt > 0 {
		n := int(math.Ceil(dt / maxSubstep))
		h := dt / float64(n)
		for i := 0; i < n; i++ {
			m.rig.Step(h, m.mode)
		}
		if m.sampler.Advance(dt) > 0 {
			m.history.Push(m.rig.Sample())
		}
	}
	m.gauge, m.gaugeVel = m.spring.Update(m.gauge, m.gaugeVel, m.loadRatio())
}

func (m *Model) reset() {
	m.rig.Reset()
	m.clock.Reset()
	m.sampler.Reset()
	m.history.Clear()
	m.history.Push(m.rig.Sample())
	m.gauge, m.gaugeVel = 0, 0
	m.status = ""
}

func (m *Model) cycleParam(dir int) {
	if len(m.params) == 0 {
		return
	}
	m.selected = (m.selected + dir + len(m.params)) % len(m.params)
}

// adjustParam scales the selected parameter. A zero parameter steps to
// 0.1 on the way up.
func (m *Model) adjustParam(factor float64) {
	if len(m.params) == 0 {
		return
	}
	key := m.params[m.selected]
	val := m.rig.GetParams()[key] * factor
	if val == 0 && factor > 1 {
		val = 0.1
	}
	if err := m.rig.SetParam(key, val); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// tensionNow is the largest tension channel of the live sample.
func (m *Model) tensionNow() float64 {
	x := m.rig.Sample()
	t := 0.0
	for _, i := range m.tension {
		if i < len(x) {
			t = math.Max(t, x[i])
		}
	}
	return t
}

// loadRatio is the rope load as a fraction of its limit. A broken rope
// reads 1 and an unbreakable one reads 0.
func (m *Model) loadRatio() float64 {
	if m.rig.Broken() {
		return 1
	}
	limit := m.rig.GetParams()["rope_limit"]
	if limit <= 0 {
		return 0
	}
	return math.Min(1, m.tensionNow()/limit)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.styles.rope.Render(m.canvas.String()))

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name+"  "+m.mode.String())) + "\n")

	switch {
	case m.rig.Broken():
		s.WriteString(st.danger.Render("ROPE BROKEN"))
	case m.clock.Paused:
		s.WriteString(st.warn.Render("PAUSED"))
	default:
		s.WriteString(st.ok.Render("RUNNING"))
	}
	s.WriteString(fmt.Sprintf("  x%g\n\n", m.clock.TimeScale))

	x := m.rig.Sample()
	if i := sim.Index(m.labels, "time"); i >= 0 {
		s.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2fs", x[i])) + "\n")
	}
	for _, name := range []string{"velocity", "acceleration", "load_velocity", "load_acceleration", "effort"} {
		if i := sim.Index(m.labels, name); i >= 0 {
			s.WriteString(st.label.Render(shortLabel(name)) + st.value.Render(fmt.Sprintf("%.3f", x[i])) + "\n")
		}
	}

	ratio := clampFloat(m.gauge, 0, 1)
	s.WriteString(st.label.Render("Tension") + st.gaugeStyle(ratio).Render(gaugeBar(ratio, 16)))
	if limit := m.rig.GetParams()["rope_limit"]; limit > 0 {
		s.WriteString(st.value.Render(fmt.Sprintf(" %.1f/%.0fN", m.tensionNow(), limit)) + "\n")
	} else {
		s.WriteString(st.value.Render(fmt.Sprintf(" %.1fN", m.tensionNow())) + "\n")
	}

	if series := m.tensionSeries(); len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("tension (N)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.params) == 0 {
		s.WriteString(st.label.Render("  (none)") + "\n")
	}
	current := m.rig.GetParams()
	for i, k := range m.params {
		line := fmt.Sprintf("%-12s %.3f", k, current[k])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.value.Render(line) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString(st.danger.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause R:Reset M:Mode Q:Quit\n+/-:Speed Tab ↑↓:Tune ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return st.help.Render(helpText) + "\n\n" + main
	}
	return main
}

const helpText = `Space     pause / resume
R         reset to the authored rig
M         toggle IDEAL / REAL
+ / -     double / halve time scale
Tab       select parameter
Up / Down scale parameter by 10%
T         cycle themes
Q         quit`

// tensionSeries merges the tension channels of the history into one series
// of per-sample maxima.
func (m Model) tensionSeries() []float64 {
	var out []float64
	for _, ch := range m.tension {
		s := m.history.Series(ch)
		if out == nil {
			out = s
			continue
		}
		for i := range out {
			out[i] = math.Max(out[i], s[i])
		}
	}
	return out
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch r := m.rig.(type) {
	case *models.Atwood:
		drawAtwood(m.canvas, r.State)
	case *models.Sandbox:
		drawSandbox(m.canvas, r.State)
	}
}

// drawAtwood draws the pulley at the top center with both masses hanging
// from its rims. The floor sits one rope length below the axle.
func drawAtwood(c *Canvas, s mechanics.AtwoodState) {
	if s.TotalRopeLength <= 0 {
		return
	}
	cw, ch := c.Dots()
	const axle, radius, box = 6, 5, 12
	cx := cw / 2
	scale := float64(ch-axle-box-3) / s.TotalRopeLength
	floor := axle + int(s.TotalRopeLength*scale) + box

	c.DrawCircle(cx, axle, radius)
	c.Set(cx, axle)
	c.DrawLine(0, floor+1, cw-1, floor+1)

	for _, end := range []struct {
		x    int
		y    float64
		mass float64
	}{
		{cx - radius, s.Y1, s.Mass1},
		{cx + radius, s.Y2, s.Mass2},
	} {
		top := axle + int(end.y*scale)
		half := clampInt(1+int(math.Sqrt(math.Max(0, end.mass))), 2, box/2)
		if !s.IsBroken {
			c.DrawLine(end.x, axle, end.x, top)
		}
		c.FillRect(end.x-half, top, end.x+half, top+2*half-1)
	}
}

// drawSandbox scales the authored pixel layout into the canvas.
func drawSandbox(c *Canvas, s mechanics.SandboxState) {
	cw, ch := c.Dots()
	floor := s.FloorY
	if floor <= 0 {
		floor = mechanics.DefaultFloorY
	}
	k := math.Min(float64(cw)/sandboxWidth, float64(ch)/(floor+10))
	p := func(v float64) int { return int(math.Round(v * k)) }

	c.DrawLine(0, p(floor), cw-1, p(floor))
	if !s.IsBroken {
		for _, l := range mechanics.RopeLines(s) {
			c.DrawLine(p(l.X1), p(l.Y1), p(l.X2), p(l.Y2))
		}
	}
	for _, f := range s.FixedPulleys {
		c.DrawCircle(p(f.X), p(f.Y), p(f.Radius))
		c.Set(p(f.X), p(f.Y))
	}
	for _, mp := range s.MovablePulleys {
		c.DrawCircle(p(mp.X), p(mp.Y), p(mp.Radius))
	}
	for _, a := range s.Anchors {
		c.FillRect(p(a.X)-1, p(a.Y)-1, p(a.X)+1, p(a.Y)+1)
	}
	for _, l := range s.Loads {
		side := export.LoadSide(l.Mass)
		c.DrawRect(p(l.X-side/2), p(l.Y-side), p(l.X+side/2), p(l.Y))
	}
}

func shortLabel(name string) string {
	name = strings.ReplaceAll(name, "load_", "")
	name = strings.ReplaceAll(name, "acceleration", "accel")
	return strings.ToUpper(name[:1]) + name[1:]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
