package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the picker
type Styles struct {
	Prompt      lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Marker      lipgloss.Style
	Match       lipgloss.Style
	Empty       lipgloss.Style
	Count       lipgloss.Style
	Scroll      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Item:        lipgloss.NewStyle(),
		Selected:    lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		Marker:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Empty:       lipgloss.NewStyle().Faint(true).Italic(true),
		Count:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
