package ui

import (
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ThemeEnv names the environment variable selecting the theme when colors
// are enabled.
const ThemeEnv = "KRONCALC_THEME"

// Theme holds the ANSI escape code of every color role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

func ansiTheme(name, primary, secondary, success, warning, failure, info string) Theme {
	return Theme{
		Name: name, Primary: primary, Secondary: secondary,
		Success: success, Warning: warning, Error: failure, Info: info,
		Bold: "\033[1m", Underline: "\033[4m", Reset: "\033[0m",
	}
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = ansiTheme("dark", "\033[38;5;39m", "\033[38;5;245m", "\033[38;5;82m", "\033[38;5;220m", "\033[38;5;196m", "\033[38;5;141m")
	// LightTheme suits light terminal backgrounds.
	LightTheme = ansiTheme("light", "\033[38;5;27m", "\033[38;5;240m", "\033[38;5;28m", "\033[38;5;130m", "\033[38;5;124m", "\033[38;5;54m")
	// OrangeTheme matches the dashboard palette.
	OrangeTheme = ansiTheme("orange", "\033[38;5;208m", "\033[38;5;245m", "\033[38;5;82m", "\033[38;5;214m", "\033[38;5;196m", "\033[38;5;69m")
	// NoColorTheme disables all color output. It is selected by --no-color
	// and by NO_COLOR (https://no-color.org/).
	NoColorTheme = Theme{Name: "none"}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		OrangeTheme.Name:  OrangeTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme is the lipgloss palette of the dashboard. Positive, Negative and
// Zero color the three symbol values.
type TUITheme struct {
	Text     lipgloss.TerminalColor
	Border   lipgloss.TerminalColor
	Accent   lipgloss.TerminalColor
	Success  lipgloss.TerminalColor
	Warning  lipgloss.TerminalColor
	Error    lipgloss.TerminalColor
	Dim      lipgloss.TerminalColor
	Info     lipgloss.TerminalColor
	Positive lipgloss.TerminalColor
	Negative lipgloss.TerminalColor
	Zero     lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default dashboard palette.
	DarkTUITheme = TUITheme{
		Text:     lipgloss.Color("#E0E0E0"),
		Border:   lipgloss.Color("#FF6600"),
		Accent:   lipgloss.Color("#FF8C00"),
		Success:  lipgloss.Color("#9ece6a"),
		Warning:  lipgloss.Color("#FFB347"),
		Error:    lipgloss.Color("#FF4444"),
		Dim:      lipgloss.Color("#666666"),
		Info:     lipgloss.Color("#4488FF"),
		Positive: lipgloss.Color("#9ece6a"),
		Negative: lipgloss.Color("#FF4444"),
		Zero:     lipgloss.Color("#FFB347"),
	}

	// LightTUITheme is the dashboard palette for light backgrounds.
	LightTUITheme = TUITheme{
		Text:     lipgloss.Color("#202020"),
		Border:   lipgloss.Color("#1F5FAF"),
		Accent:   lipgloss.Color("#005FD7"),
		Success:  lipgloss.Color("#008700"),
		Warning:  lipgloss.Color("#AF5F00"),
		Error:    lipgloss.Color("#AF0000"),
		Dim:      lipgloss.Color("#808080"),
		Info:     lipgloss.Color("#5F00AF"),
		Positive: lipgloss.Color("#008700"),
		Negative: lipgloss.Color("#AF0000"),
		Zero:     lipgloss.Color("#AF5F00"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text: lipgloss.NoColor{}, Border: lipgloss.NoColor{}, Accent: lipgloss.NoColor{},
		Success: lipgloss.NoColor{}, Warning: lipgloss.NoColor{}, Error: lipgloss.NoColor{},
		Dim: lipgloss.NoColor{}, Info: lipgloss.NoColor{},
		Positive: lipgloss.NoColor{}, Negative: lipgloss.NoColor{}, Zero: lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates the theme called name. It reports false, leaving the
// dark theme active, when the name is unknown.
func SetTheme(name string) bool {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	currentTheme = t
	return ok
}

// ThemeNames returns the known theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitTheme selects the startup theme: none when noColor is set or NO_COLOR
// exists, else the theme named by KRONCALC_THEME, else dark.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv(ThemeEnv))
}
