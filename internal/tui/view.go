package tui

import (
	"fmt"
	"strings"

	"selectlist/internal/domain"
	"selectlist/internal/fuzzy"
)

const (
	selectedMarker = "> "
	plainMarker    = "  "
)

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.query.view())
	b.WriteString("\n")

	if len(m.frame.Items) == 0 {
		if m.frame.EmptyMessage != "" {
			b.WriteString(plainMarker)
			b.WriteString(m.styles.Empty.Render(m.frame.EmptyMessage))
			b.WriteString("\n")
		}
	} else {
		start, end := m.viewport.window(len(m.frame.Items))
		for i := start; i < end; i++ {
			b.WriteString(m.renderEntry(m.frame.Items[i], i == m.frame.Selected))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderEntry(entry domain.Entry, selected bool) string {
	var positions []int
	if m.frame.Query != "" {
		positions = fuzzy.MatchPositions(m.scorer, entry.Display, m.frame.Query)
	}
	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	base := m.styles.Item
	if selected {
		base = m.styles.Selected
	}

	var line strings.Builder
	for i, r := range []rune(entry.Display) {
		if matched[i] {
			line.WriteString(m.styles.Match.Inherit(base).Render(string(r)))
		} else {
			line.WriteString(base.Render(string(r)))
		}
	}

	if selected {
		return m.styles.Marker.Render(selectedMarker) + line.String()
	}
	return plainMarker + line.String()
}

func (m *Model) renderStatus() string {
	total := len(m.list.Items())
	status := m.styles.Count.Render(fmt.Sprintf("  %d/%d", len(m.frame.Items), total))

	start, end := m.viewport.window(len(m.frame.Items))
	if start > 0 || end < len(m.frame.Items) {
		status += m.styles.Scroll.Render(fmt.Sprintf("  (%d-%d)", start+1, end))
	}
	if m.status != "" {
		status += "  " + m.styles.StatusError.Render(m.status)
	}
	return status
}
