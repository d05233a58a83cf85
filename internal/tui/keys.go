package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"selectlist/internal/commands"
	"selectlist/internal/config"
)

var commandHelp = map[commands.Name]string{
	commands.MoveNext:     "next",
	commands.MovePrevious: "previous",
	commands.MoveToFirst:  "first",
	commands.MoveToLast:   "last",
	commands.Confirm:      "select",
	commands.Cancel:       "cancel",
}

// keyMap translates key presses into list commands and host actions
type keyMap struct {
	commands   map[commands.Name]key.Binding
	help       key.Binding
	clearQuery key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	km := keyMap{commands: make(map[commands.Name]key.Binding)}
	for name, keys := range cfg.CommandKeys() {
		km.commands[name] = binding(keys, commandHelp[name])
	}
	km.help = binding(cfg.Keys[config.ActionHelp], "help")
	km.clearQuery = binding(cfg.Keys[config.ActionClearQuery], "clear")
	return km
}

func binding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], desc),
	)
}

// command returns the list command bound to msg, in Names order so that a
// key bound twice resolves deterministically
func (k keyMap) command(msg tea.KeyMsg) (commands.Name, bool) {
	for _, name := range commands.Names() {
		if b, ok := k.commands[name]; ok && key.Matches(msg, b) {
			return name, true
		}
	}
	return "", false
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.commands[commands.MovePrevious],
		k.commands[commands.MoveNext],
		k.commands[commands.Confirm],
		k.commands[commands.Cancel],
		k.help,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			k.commands[commands.MovePrevious],
			k.commands[commands.MoveNext],
			k.commands[commands.MoveToFirst],
			k.commands[commands.MoveToLast],
		},
		{
			k.commands[commands.Confirm],
			k.commands[commands.Cancel],
			k.clearQuery,
			k.help,
		},
	}
}
