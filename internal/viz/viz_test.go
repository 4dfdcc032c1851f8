package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pulleysim/internal/mechanics"
	"github.com/san-kum/pulleysim/internal/models"
)

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run feeds frames 16ms apart, starting with a priming frame.
func run(m Model, start time.Time, frames int) Model {
	for i := 0; i <= frames; i++ {
		m = send(m, TickMsg(start.Add(time.Duration(i)*16*time.Millisecond)))
	}
	return m
}

func newAtwoodModel(mode mechanics.RealityMode) (Model, *models.Atwood) {
	rig := models.NewAtwood(mechanics.NewAtwoodState())
	return NewModel(rig, Options{Name: "atwood", Mode: mode}), rig
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.Dots()
	require.Equal(t, 8, w)
	require.Equal(t, 8, h)

	c.Set(0, 0)
	require.Equal(t, rune(0x2801), c.Grid[0][0])
	require.True(t, c.IsSet(0, 0))

	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	require.False(t, c.IsSet(8, 0))

	c.FillRect(1, 3, 0, 0)
	require.Equal(t, rune(0x28FF), c.Grid[0][0])

	c.Clear()
	require.False(t, c.IsSet(0, 0))
	require.Equal(t, 1, strings.Count(c.String(), "\n"))
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(10, 6)
	c.DrawCircle(10, 10, 3)
	for _, p := range [][2]int{{13, 10}, {7, 10}, {10, 13}, {10, 7}} {
		require.True(t, c.IsSet(p[0], p[1]), "rim dot %v", p)
	}
	require.False(t, c.IsSet(10, 10))

	c.Clear()
	c.DrawRect(2, 2, 6, 5)
	require.True(t, c.IsSet(2, 2))
	require.True(t, c.IsSet(6, 5))
	require.False(t, c.IsSet(4, 3))

	c.Clear()
	c.DrawLine(0, 0, 5, 0)
	for x := 0; x <= 5; x++ {
		require.True(t, c.IsSet(x, 0))
	}
}

func TestThemes(t *testing.T) {
	require.Equal(t, "workshop", GetTheme("bogus").Name)
	require.Equal(t, "blueprint", GetTheme("blueprint").Name)
	require.Equal(t, ThemeWorkshop, NextTheme(ThemeRetro))
	require.Len(t, ThemeNames(), len(Themes))
}

func TestGaugeBar(t *testing.T) {
	require.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), gaugeBar(0.5, 10))
	require.Equal(t, strings.Repeat("█", 4), gaugeBar(2, 4))
	require.Equal(t, strings.Repeat("░", 3), gaugeBar(-1, 3))
}

func TestModelAdvances(t *testing.T) {
	m, rig := newAtwoodModel(mechanics.Ideal)
	start := time.Unix(0, 0)

	m = run(m, start, 60)
	require.InDelta(t, 0.96, rig.State.Time, 1e-9)
	require.Less(t, rig.State.Y1, 2.0)
	require.Greater(t, m.history.Len(), 1)

	m = send(m, key(" "))
	before := rig.State.Time
	m = run(m, start.Add(time.Second), 10)
	require.Equal(t, before, rig.State.Time, "paused rig should not advance")

	m = send(m, key(" "))
	m = send(m, TickMsg(start.Add(2*time.Second)))
	require.InDelta(t, before+0.05, rig.State.Time, 1e-9, "stalled frame should clamp to the max delta")
}

func TestModelKeys(t *testing.T) {
	m, rig := newAtwoodModel(mechanics.Ideal)

	m = send(m, key("m"))
	require.Equal(t, mechanics.Real, m.mode)
	m = send(m, key("m"))
	require.Equal(t, mechanics.Ideal, m.mode)

	m = send(m, key("+"))
	require.Equal(t, 2.0, m.clock.TimeScale)
	m = send(m, key("-"))
	m = send(m, key("-"))
	require.Equal(t, 0.5, m.clock.TimeScale)
	for i := 0; i < 10; i++ {
		m = send(m, key("+"))
	}
	require.Equal(t, float64(maxTimeScale), m.clock.TimeScale)

	require.Equal(t, []string{"air", "friction", "mass1", "mass2", "pulley_mass", "rope_limit"}, m.params)
	m = send(m, key("up"))
	require.InDelta(t, 0.55, rig.GetParams()["air"], 1e-12)

	m = send(m, key("tab"))
	m = send(m, key("up"))
	require.InDelta(t, 0.1, rig.GetParams()["friction"], 1e-12)

	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 0, m.selected)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
}

func TestModelReset(t *testing.T) {
	m, rig := newAtwoodModel(mechanics.Ideal)
	m = run(m, time.Unix(0, 0), 30)
	require.Greater(t, rig.State.Time, 0.0)

	m = send(m, key("r"))
	require.Equal(t, 0.0, rig.State.Time)
	require.Equal(t, 2.0, rig.State.Y1)
	require.Equal(t, 1, m.history.Len())
	require.Zero(t, m.gauge)
}

func TestModelRopeBreak(t *testing.T) {
	rig := models.NewAtwood(mechanics.NewAtwoodState())
	require.NoError(t, rig.SetParam("rope_limit", 20))
	m := NewModel(rig, Options{Name: "atwood", Mode: mechanics.Real})

	m = run(m, time.Unix(0, 0), 90)
	require.True(t, rig.Broken())
	require.Greater(t, m.gauge, 0.5)

	view := m.View()
	require.Contains(t, view, "ROPE BROKEN")
	require.Contains(t, view, "ATWOOD  REAL")
}

func TestModelView(t *testing.T) {
	m, _ := newAtwoodModel(mechanics.Ideal)
	m = run(m, time.Unix(0, 0), 30)

	view := m.View()
	for _, want := range []string{"ATWOOD  IDEAL", "RUNNING", "PARAMETERS", "mass1", "tension (N)"} {
		require.Contains(t, view, want)
	}

	m = send(m, key("?"))
	require.Contains(t, m.View(), "toggle IDEAL / REAL")
}

func TestDrawAtwood(t *testing.T) {
	s := mechanics.NewAtwoodState()
	c := NewCanvas(canvasCols, canvasRows)

	drawAtwood(c, s)
	require.True(t, c.IsSet(55, 20), "left rope should hang from the rim")

	s.IsBroken = true
	c.Clear()
	drawAtwood(c, s)
	require.False(t, c.IsSet(55, 20), "broken rig draws no rope")
}

func TestDrawSandbox(t *testing.T) {
	s := mechanics.SandboxState{
		FixedPulleys: []mechanics.FixedPulley{{ID: "f1", X: 300, Y: 100, Radius: 20}},
		Loads: []mechanics.Load{
			{ID: "left", Mass: 2, X: 280, Y: 300},
			{ID: "right", Mass: 2, X: 320, Y: 300},
		},
		Ropes: []mechanics.RopeSegment{
			{ID: "r1", FromID: "left", ToID: "f1", Kind: mechanics.RopePulley, ToSide: -1},
			{ID: "r2", FromID: "f1", ToID: "right", Kind: mechanics.RopePulley, FromSide: 1},
		},
		FloorY: 870,
	}
	c := NewCanvas(canvasCols, canvasRows)

	drawSandbox(c, s)
	require.True(t, c.IsSet(28, 20), "left rope")
	require.True(t, c.IsSet(0, 87), "floor")

	s.IsBroken = true
	c.Clear()
	drawSandbox(c, s)
	require.False(t, c.IsSet(28, 20))
}

func TestSandboxModel(t *testing.T) {
	rig := models.NewSandbox(mechanics.SandboxState{
		FixedPulleys: []mechanics.FixedPulley{{ID: "f1", X: 300, Y: 100, Radius: 20}},
		Loads:        []mechanics.Load{{ID: "L1", Mass: 5, X: 280, Y: 300}},
		Ropes: []mechanics.RopeSegment{
			{ID: "r1", FromID: "L1", ToID: "f1", Kind: mechanics.RopePulley, ToSide: -1},
		},
		EffortForce:    60,
		RopeMaxTension: 500,
	})
	m := NewModel(rig, Options{Name: "sandbox"})
	require.Equal(t, []int{4}, m.tension)

	m = run(m, time.Unix(0, 0), 30)
	require.InDelta(t, 0.48, rig.Time(), 1e-9)
	require.Contains(t, m.View(), "L1.mass")
}
