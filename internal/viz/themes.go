package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name   string
	Rope   lipgloss.Color
	Pulley lipgloss.Color
	Load   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Ok     lipgloss.Color
	Warn   lipgloss.Color
	Danger lipgloss.Color
}

var (
	ThemeWorkshop = Theme{
		Name:   "workshop",
		Rope:   lipgloss.Color("#d4d4d4"),
		Pulley: lipgloss.Color("#7aa2f7"),
		Load:   lipgloss.Color("#e0af68"),
		Accent: lipgloss.Color("#bb9af7"),
		Text:   lipgloss.Color("#c0caf5"),
		Muted:  lipgloss.Color("#565f89"),
		Ok:     lipgloss.Color("#9ece6a"),
		Warn:   lipgloss.Color("#e0af68"),
		Danger: lipgloss.Color("#f7768e"),
	}

	ThemeBlueprint = Theme{
		Name:   "blueprint",
		Rope:   lipgloss.Color("#e0f0ff"),
		Pulley: lipgloss.Color("#00a8cc"),
		Load:   lipgloss.Color("#ffd700"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Ok:     lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Danger: lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Rope:   lipgloss.Color("#00ff00"),
		Pulley: lipgloss.Color("#00cc00"),
		Load:   lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Ok:     lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Danger: lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeWorkshop, ThemeBlueprint, ThemeRetro}
)

// GetTheme returns the theme with the given name, or the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
