// Package styles provides shared lipgloss styles for CLI output and huh forms.
package styles

import (
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/taskpad/internal/core/todo"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	HeaderStyle   lipgloss.Style
	IndexStyle    lipgloss.Style
	MutedStyle    lipgloss.Style
	TitleStyle    lipgloss.Style
	FinishedStyle lipgloss.Style

	LowPriorityStyle    lipgloss.Style
	MediumPriorityStyle lipgloss.Style
	HighPriorityStyle   lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	IndexStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Width(4).
		Align(lipgloss.Right)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true)
	FinishedStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Strikethrough(true)

	LowPriorityStyle = lipgloss.NewStyle().Foreground(p.Success)
	MediumPriorityStyle = lipgloss.NewStyle().Foreground(p.Warning)
	HighPriorityStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
}

// PriorityStyle returns the style used for items of priority p.
func PriorityStyle(p todo.Priority) lipgloss.Style {
	switch p {
	case todo.PriorityHigh:
		return HighPriorityStyle
	case todo.PriorityMedium:
		return MediumPriorityStyle
	default:
		return LowPriorityStyle
	}
}

// StatusIcon returns the glyph for status s.
func StatusIcon(s todo.Status) string {
	if s == todo.StatusFinished {
		return IconFinished
	}
	return IconUnfinished
}

// FormTheme returns a huh theme matching the active palette.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()
	p := CurrentPalette

	t.Focused.Title = t.Focused.Title.Foreground(p.Primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(p.Muted)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(p.Error)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(p.Error)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p.Primary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(p.Primary)

	t.Blurred = t.Focused
	t.Blurred.Title = t.Blurred.Title.Foreground(p.Muted).Bold(false)

	return t
}
