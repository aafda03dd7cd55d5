// Package tui is the bubbletea front end for the memory game.
//
// The model never touches game state directly. Key presses become calls on a
// Controller (which posts them to the game loop) and the loop pushes frames
// and popups back into the program through a Bridge.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("#8BC34A")
	Primary = lipgloss.Color("#101F38")
	Muted   = lipgloss.Color("#6b7685")
	Warning = lipgloss.Color("#FFC107")
	Danger  = lipgloss.Color("#e53935")
)

// Styles holds every lipgloss style the view uses.
type Styles struct {
	Header      lipgloss.Style
	Stat        lipgloss.Style
	LowTime     lipgloss.Style
	CardDown    lipgloss.Style
	CardUp      lipgloss.Style
	CardMatched lipgloss.Style
	Cursor      lipgloss.Style
	Popup       lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Width(4).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())

	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Stat:        lipgloss.NewStyle().PaddingRight(3),
		LowTime:     lipgloss.NewStyle().PaddingRight(3).Bold(true).Foreground(Danger),
		CardDown:    card.BorderForeground(Muted).Foreground(Muted),
		CardUp:      card.BorderForeground(Warning),
		CardMatched: card.BorderForeground(Accent).Faint(true),
		Cursor:      card.BorderForeground(Accent).Bold(true),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Accent).
			Padding(1, 3).
			Bold(true),
		Help: lipgloss.NewStyle().Foreground(Muted),
	}
}
