package tui

import (
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"selectlist/internal/commands"
	"selectlist/internal/config"
	"selectlist/internal/domain"
	"selectlist/internal/eventbus"
	"selectlist/internal/fuzzy"
	"selectlist/internal/render"
	"selectlist/internal/selectlist"
	"selectlist/internal/session"
)

// commitMsg asks the model to run the render commits the list posted
type commitMsg struct{}

// Options configures a picker model
type Options struct {
	Entries []domain.Entry
	Config  *config.Config
	Query   string
	Scorer  fuzzy.Scorer
	Bus     eventbus.EventBus
}

// Model is the bubbletea host for a selection list. Key presses bound to list
// commands are dispatched through a command registry; everything else edits
// the query.
type Model struct {
	list     *selectlist.List[domain.Entry]
	registry *commands.Registry
	query    *querySource
	queue    *render.Queue
	frame    selectlist.Frame[domain.Entry]
	scorer   fuzzy.Scorer

	cfg      *config.Config
	keys     keyMap
	help     help.Model
	styles   *Styles
	viewport viewport
	helpOps  *HelpOps

	width  int
	height int

	result domain.Result
	status string
}

// NewModel creates a picker over entries
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	scorer := opts.Scorer
	if scorer == nil {
		var err error
		if scorer, err = fuzzy.ByName(cfg.Scorer); err != nil {
			return nil, err
		}
	}

	m := &Model{
		registry: commands.NewRegistry(),
		query:    newQuerySource(cfg.Prompt, opts.Query),
		queue:    &render.Queue{},
		scorer:   scorer,
		cfg:      cfg,
		keys:     newKeyMap(cfg),
		help:     help.New(),
		styles:   NewStyles(),
	}
	m.query.input.PromptStyle = m.styles.Prompt
	m.viewport.setHeight(0, cfg.Height)

	list, err := selectlist.New(selectlist.Config[domain.Entry]{
		Items:        opts.Entries,
		MaxResults:   cfg.MaxResults,
		EmptyMessage: cfg.EmptyMessage,
		Scorer:       scorer,
		FilterKeyForItem: func(e domain.Entry) string {
			return e.Display
		},
		DidConfirmSelection: m.didConfirm,
		DidCancelSelection:  m.didCancel,
		OnError:             m.reportError,
		QuerySource:         m.query,
		Commands:            m.registry,
		Renderer:            selectlist.RendererFunc[domain.Entry](m.render),
		Poster:              m.queue,
		Bus:                 opts.Bus,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	m.list = list
	return m, nil
}

// SetProgram gives the model access to the terminal for the help pager
func (m *Model) SetProgram(program *tea.Program) {
	m.helpOps = NewHelpOps(program)
}

// Result returns what the session ended with
func (m *Model) Result() domain.Result {
	return m.result
}

// List exposes the underlying list
func (m *Model) List() *selectlist.List[domain.Entry] {
	return m.list
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.commitCmd())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.setHeight(msg.Height, m.cfg.Height)
		m.viewport.ensureVisible(m.frame.Selected, len(m.frame.Items))

	case commitMsg:
		m.queue.Drain()

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
			m.status = fmt.Sprintf("help unavailable: %v", msg.err)
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		cmds = append(cmds, m.query.update(msg))
	}

	if m.list.State().Terminal() {
		return m, tea.Quit
	}
	cmds = append(cmds, m.commitCmd())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if name, ok := m.keys.command(msg); ok {
		m.status = ""
		if _, err := m.registry.Dispatch(name); err != nil && !errors.Is(err, session.ErrNotActive) {
			m.reportError(err)
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.help):
		return m.showHelp()
	case key.Matches(msg, m.keys.clearQuery):
		m.status = ""
		m.query.setText("")
		return nil
	}

	m.status = ""
	return m.query.update(msg)
}

func (m *Model) showHelp() tea.Cmd {
	content := renderHelpContent(m.keys)
	ops := m.helpOps
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}

// commitCmd delivers a commitMsg when the list has posted a render commit
func (m *Model) commitCmd() tea.Cmd {
	if m.queue.Len() == 0 {
		return nil
	}
	return func() tea.Msg { return commitMsg{} }
}

func (m *Model) render(frame selectlist.Frame[domain.Entry]) {
	m.frame = frame
	m.viewport.ensureVisible(frame.Selected, len(frame.Items))
}

func (m *Model) didConfirm(entry domain.Entry, ok bool) {
	m.result = domain.Result{
		Query:    m.list.GetQuery(),
		Item:     entry.Display,
		Selected: ok,
	}
}

func (m *Model) didCancel() {
	m.result = domain.Result{
		Query:     m.list.GetQuery(),
		Cancelled: true,
	}
}

func (m *Model) reportError(err error) {
	log.Printf("Picker error: %v", err)
	m.status = err.Error()
}
