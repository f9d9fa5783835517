package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string

	Border      string
	BorderFocus string

	SelectionBg   string
	SelectionText string
}

var themes = []Theme{
	{
		Name:          "Garden",
		Background:    "#1d2021",
		Surface:       "#282828",
		Text:          "#ebdbb2",
		Muted:         "#928374",
		Accent:        "#d3869b",
		Success:       "#b8bb26",
		Warning:       "#fabd2f",
		Danger:        "#fb4934",
		Border:        "#504945",
		BorderFocus:   "#d3869b",
		SelectionBg:   "#3c3836",
		SelectionText: "#fbf1c7",
	},
	{
		Name:          "Dusk",
		Background:    "#16161e",
		Surface:       "#1a1b26",
		Text:          "#c0caf5",
		Muted:         "#565f89",
		Accent:        "#bb9af7",
		Success:       "#9ece6a",
		Warning:       "#e0af68",
		Danger:        "#f7768e",
		Border:        "#3b4261",
		BorderFocus:   "#bb9af7",
		SelectionBg:   "#283457",
		SelectionText: "#c0caf5",
	},
}

// GetTheme returns the named theme, defaulting to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name following the given one, wrapping around.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// Styles are the lipgloss styles derived from a theme once per change.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Danger   lipgloss.Style
	Card     lipgloss.Style
	CardSel  lipgloss.Style
	Field    lipgloss.Style
	Notice   lipgloss.Style
	NoticeGo lipgloss.Style
}

// Styles builds the style set for the theme.
func (t Theme) Styles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		Padding(0, 1)

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)),
		Card:    card,
		CardSel: card.
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Field: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(t.Border)),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),
		NoticeGo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}
