package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the console panels
type Theme struct {
	Key  string
	Name string

	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Error  lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selected    lipgloss.Color // background of the selected slide or item
	Live        lipgloss.Color // marker for whatever is on the projector
}

// Available themes, in the order "t" cycles through them
var themes = []Theme{
	{
		Key: "catppuccin-mocha", Name: "Catppuccin Mocha",
		Text: "#cdd6f4", Muted: "#6c7086", Accent: "#f5c2e7", Error: "#f38ba8",
		Border: "#45475a", BorderFocus: "#89b4fa", Selected: "#45475a", Live: "#a6e3a1",
	},
	{
		Key: "catppuccin-latte", Name: "Catppuccin Latte",
		Text: "#4c4f69", Muted: "#9ca0b0", Accent: "#ea76cb", Error: "#d20f39",
		Border: "#dce0e8", BorderFocus: "#1e66f5", Selected: "#ccd0da", Live: "#40a02b",
	},
	{
		Key: "dracula", Name: "Dracula",
		Text: "#f8f8f2", Muted: "#6272a4", Accent: "#ff79c6", Error: "#ff5555",
		Border: "#44475a", BorderFocus: "#bd93f9", Selected: "#44475a", Live: "#50fa7b",
	},
	{
		Key: "solarized-dark", Name: "Solarized Dark",
		Text: "#839496", Muted: "#586e75", Accent: "#d33682", Error: "#dc322f",
		Border: "#073642", BorderFocus: "#268bd2", Selected: "#073642", Live: "#859900",
	},
	{
		Key: "solarized-light", Name: "Solarized Light",
		Text: "#657b83", Muted: "#93a1a1", Accent: "#d33682", Error: "#dc322f",
		Border: "#eee8d5", BorderFocus: "#268bd2", Selected: "#eee8d5", Live: "#859900",
	},
}

// All returns every available theme
func All() []Theme {
	return append([]Theme(nil), themes...)
}

// Get returns a theme by key, defaulting to Catppuccin Mocha if not found
func Get(key string) Theme {
	for _, t := range themes {
		if t.Key == key {
			return t
		}
	}
	return themes[0]
}

// Next returns the theme after t, wrapping around.
func Next(t Theme) Theme {
	for i, th := range themes {
		if th.Key == t.Key {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title    lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Panel    lipgloss.Style
	Focused  lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Live     lipgloss.Style
	VerseNum lipgloss.Style
	Text     lipgloss.Style
}

// Styles builds the panel styles for t.
func (t Theme) Styles() Styles {
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Help:     lipgloss.NewStyle().Foreground(t.Muted),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Panel:    panel,
		Focused:  panel.BorderForeground(t.BorderFocus),
		Item:     lipgloss.NewStyle().Foreground(t.Text),
		Selected: lipgloss.NewStyle().Foreground(t.Text).Background(t.Selected).Bold(true),
		Live:     lipgloss.NewStyle().Foreground(t.Live).Bold(true),
		VerseNum: lipgloss.NewStyle().Foreground(t.Accent),
		Text:     lipgloss.NewStyle().Foreground(t.Text),
	}
}
