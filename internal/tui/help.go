package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// renderHelpContent renders the full key reference shown in the pager
func renderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(24)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("selectlist Help"))
	help.WriteString("\n")

	sections := []struct {
		title    string
		bindings []key.Binding
		descs    []string
	}{
		{
			title:    "Navigation",
			bindings: keys.FullHelp()[0],
			descs:    []string{"Select previous item (wraps)", "Select next item (wraps)", "Select first item", "Select last item"},
		},
		{
			title:    "Session",
			bindings: keys.FullHelp()[1],
			descs:    []string{"Confirm selection", "Cancel", "Clear query", "Show this help"},
		},
	}

	for _, section := range sections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for i, b := range section.bindings {
			if !b.Enabled() {
				continue
			}
			help.WriteString(fmt.Sprintf("  %s%s\n",
				keyStyle.Render(strings.Join(b.Keys(), ", ")),
				descStyle.Render(section.descs[i])))
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Query"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Type to filter. Characters match in order, not necessarily adjacent;"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  contiguous matches near the start rank first."))
	help.WriteString("\n")

	return help.String()
}

// HelpOps shows the key reference in a pager
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h == nil || h.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// give ov time to reset the terminal before bubbletea takes it back
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
