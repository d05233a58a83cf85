package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// querySource adapts a textinput to the list's query source. The model feeds
// every non-command key through update; listeners hear about value changes.
type querySource struct {
	input     textinput.Model
	listeners map[int]func()
	nextID    int
}

func newQuerySource(prompt, initial string) *querySource {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = ""
	ti.SetValue(initial)
	ti.Focus()
	return &querySource{input: ti, listeners: make(map[int]func())}
}

// GetText returns the current input value
func (q *querySource) GetText() string {
	return q.input.Value()
}

// OnDidChange registers callback for value changes
func (q *querySource) OnDidChange(callback func()) func() {
	id := q.nextID
	q.nextID++
	q.listeners[id] = callback
	return func() { delete(q.listeners, id) }
}

func (q *querySource) update(msg tea.Msg) tea.Cmd {
	before := q.input.Value()
	var cmd tea.Cmd
	q.input, cmd = q.input.Update(msg)
	if q.input.Value() != before {
		q.notify()
	}
	return cmd
}

func (q *querySource) setText(text string) {
	if text == q.input.Value() {
		return
	}
	q.input.SetValue(text)
	q.notify()
}

func (q *querySource) notify() {
	ids := make([]int, 0, len(q.listeners))
	for id := range q.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if cb, ok := q.listeners[id]; ok {
			cb()
		}
	}
}

func (q *querySource) view() string {
	return q.input.View()
}
