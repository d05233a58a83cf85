package selectlist

import (
	"errors"
	"log"
	"reflect"
	"slices"

	"selectlist/internal/commands"
	"selectlist/internal/eventbus"
	"selectlist/internal/filter"
	"selectlist/internal/render"
	"selectlist/internal/selection"
	"selectlist/internal/session"
)

// List owns an item set, a query and the filtered view derived from them,
// plus the selection within that view. All methods run synchronously on the
// caller's goroutine; only the render commit is deferred.
type List[T any] struct {
	cfg Config[T]

	items        []T
	query        string
	view         []T
	maxResults   int
	emptyMessage string

	selection *selection.Service
	session   *session.Machine
	querySub  session.Disposable
	scheduler *render.Scheduler
	bus       eventbus.EventBus
}

// New creates an active list. The query is seeded from cfg.QuerySource when
// one is set. DidChangeSelection fires once for the initial selection.
func New[T any](cfg Config[T]) (*List[T], error) {
	l := &List[T]{
		cfg:          cfg,
		items:        slices.Clone(cfg.Items),
		maxResults:   cfg.MaxResults,
		emptyMessage: cfg.EmptyMessage,
		selection:    selection.NewService(),
		session:      session.New(),
		bus:          cfg.Bus,
	}
	if l.bus == nil {
		l.bus = eventbus.NullBus{}
	}
	if cfg.QuerySource != nil {
		l.query = cfg.QuerySource.GetText()
	}

	view, err := l.run(l.items, l.query, l.maxResults)
	if err != nil {
		return nil, err
	}
	l.view = view
	l.selection.SetLength(len(view))

	l.scheduler = render.NewScheduler(cfg.Poster, l.commit)
	l.session.Add(l.scheduler.Stop)
	if cfg.Commands != nil {
		l.session.Add(cfg.Commands.Add(l.commandHandlers()))
	}
	l.session.Add(l.querySub.Dispose)
	if cfg.QuerySource != nil {
		l.subscribe(cfg.QuerySource)
	}

	l.notifySelection()
	l.scheduler.Schedule()
	return l, nil
}

func (l *List[T]) commandHandlers() map[commands.Name]commands.Handler {
	return map[commands.Name]commands.Handler{
		commands.MoveNext:     l.SelectNext,
		commands.MovePrevious: l.SelectPrevious,
		commands.MoveToFirst:  l.SelectFirst,
		commands.MoveToLast:   l.SelectLast,
		commands.Confirm:      l.Confirm,
		commands.Cancel:       l.Cancel,
	}
}

// SetQuery stores q, recomputes the view and selects its first item
func (l *List[T]) SetQuery(q string) error {
	if !l.session.Active() {
		return session.ErrNotActive
	}

	view, err := l.run(l.items, q, l.maxResults)
	if err != nil {
		return err
	}

	l.query = q
	l.view = view
	l.selection.SetLength(len(view))
	l.selection.Reset()

	l.bus.Publish(eventbus.QueryChangedEvent{Query: q, Matches: len(view)})
	l.notifySelection()
	l.scheduler.Schedule()
	return nil
}

// GetQuery returns the current query
func (l *List[T]) GetQuery() string {
	return l.query
}

// SetItems replaces the item set. A selection index past the end of the new
// view goes back to 0, and DidChangeSelection fires only if the selected item
// changed.
func (l *List[T]) SetItems(items []T) error {
	if !l.session.Active() {
		return session.ErrNotActive
	}
	if err := l.replace(items, l.maxResults); err != nil {
		return err
	}
	l.scheduler.Schedule()
	return nil
}

// Items returns a copy of the item set
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// View returns a copy of the filtered view
func (l *List[T]) View() []T {
	return slices.Clone(l.view)
}

// SelectedIndex returns the selection index into View, or -1
func (l *List[T]) SelectedIndex() int {
	i, _ := l.selection.Index()
	return i
}

// GetSelected returns the selected item, or false when the view is empty
func (l *List[T]) GetSelected() (T, bool) {
	i, ok := l.selection.Index()
	if !ok {
		var zero T
		return zero, false
	}
	return l.view[i], true
}

// State returns the session state
func (l *List[T]) State() session.State {
	return l.session.State()
}

// SelectNext moves to the next item, wrapping to the first
func (l *List[T]) SelectNext() error {
	return l.navigate(selection.DirectionNext)
}

// SelectPrevious moves to the previous item, wrapping to the last
func (l *List[T]) SelectPrevious() error {
	return l.navigate(selection.DirectionPrevious)
}

// SelectFirst moves to the first item
func (l *List[T]) SelectFirst() error {
	return l.navigate(selection.DirectionFirst)
}

// SelectLast moves to the last item
func (l *List[T]) SelectLast() error {
	return l.navigate(selection.DirectionLast)
}

// navigate always notifies, even when the view is empty or the index did not
// move.
func (l *List[T]) navigate(direction selection.Direction) error {
	if !l.session.Active() {
		return session.ErrNotActive
	}
	l.selection.Navigate(direction)
	l.notifySelection()
	l.scheduler.Schedule()
	return nil
}

// Confirm ends the session with the current selection.
// Outside the Active state it returns session.ErrNotActive and does nothing.
func (l *List[T]) Confirm() error {
	if err := l.session.Transition(session.Confirmed); err != nil {
		return err
	}
	defer l.session.Release()

	item, ok := l.GetSelected()
	log.Printf("Selection confirmed: index=%d query=%q", l.SelectedIndex(), l.query)
	l.bus.Publish(eventbus.SelectionConfirmedEvent{
		Index: l.SelectedIndex(),
		Item:  eventItem(item, ok),
		Query: l.query,
	})
	if l.cfg.DidConfirmSelection != nil {
		l.cfg.DidConfirmSelection(item, ok)
	}
	return nil
}

// Cancel ends the session without a selection.
// Outside the Active state it returns session.ErrNotActive and does nothing.
func (l *List[T]) Cancel() error {
	if err := l.session.Transition(session.Cancelled); err != nil {
		return err
	}
	defer l.session.Release()

	log.Printf("Selection cancelled: query=%q", l.query)
	l.bus.Publish(eventbus.SessionCancelledEvent{Query: l.query})
	if l.cfg.DidCancelSelection != nil {
		l.cfg.DidCancelSelection()
	}
	return nil
}

// Update applies a partial configuration and returns a channel that is closed
// once the resulting render commit has finished.
func (l *List[T]) Update(opts UpdateOptions[T]) (<-chan struct{}, error) {
	if !l.session.Active() {
		return closed(), session.ErrNotActive
	}

	items := l.items
	if opts.Items != nil {
		items = opts.Items
	}
	maxResults := l.maxResults
	if opts.MaxResults != nil {
		maxResults = *opts.MaxResults
	}

	if opts.Items != nil || maxResults != l.maxResults {
		if err := l.replace(items, maxResults); err != nil {
			return closed(), err
		}
	}
	if opts.EmptyMessage != nil {
		l.emptyMessage = *opts.EmptyMessage
	}
	return l.scheduler.Schedule(), nil
}

// AttachQuerySource follows src for query changes, replacing any attached
// source, and seeds the query from its current text.
func (l *List[T]) AttachQuerySource(src QuerySource) error {
	if !l.session.Active() {
		return session.ErrNotActive
	}
	if err := l.SetQuery(src.GetText()); err != nil {
		return err
	}
	l.querySub.Dispose()
	l.subscribe(src)
	return nil
}

// DetachQuerySource stops following the attached query source.
// The query keeps its last value.
func (l *List[T]) DetachQuerySource() {
	l.querySub.Dispose()
}

func (l *List[T]) subscribe(src QuerySource) {
	l.querySub.Add(src.OnDidChange(func() {
		err := l.SetQuery(src.GetText())
		if err == nil || errors.Is(err, session.ErrNotActive) {
			return
		}
		if l.cfg.OnError != nil {
			l.cfg.OnError(err)
		}
	}))
}

// replace recomputes the view for new items or a new cap and moves the
// selection back into it. Nothing changes when filtering fails.
func (l *List[T]) replace(items []T, maxResults int) error {
	prev, hadPrev := l.GetSelected()

	items = slices.Clone(items)
	view, err := l.run(items, l.query, maxResults)
	if err != nil {
		return err
	}

	l.items = items
	l.maxResults = maxResults
	l.view = view
	l.selection.SetLength(len(view))

	l.bus.Publish(eventbus.ItemsReplacedEvent{Count: len(l.items), Matches: len(view)})

	cur, ok := l.GetSelected()
	if ok != hadPrev || (ok && !l.equal(prev, cur)) {
		l.notifySelection()
	}
	return nil
}

func (l *List[T]) run(items []T, query string, maxResults int) ([]T, error) {
	view, err := filter.Filter(items, query, filter.Options[T]{
		Scorer:     l.cfg.Scorer,
		Key:        l.cfg.FilterKeyForItem,
		Custom:     l.cfg.Filter,
		MaxResults: maxResults,
	})
	if err != nil {
		log.Printf("Filter failed for %q: %v", query, err)
		l.bus.Publish(eventbus.FilterFailedEvent{Query: query, Err: err})
		return nil, err
	}
	return view, nil
}

func (l *List[T]) equal(a, b T) bool {
	if l.cfg.Equal != nil {
		return l.cfg.Equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

func (l *List[T]) notifySelection() {
	item, ok := l.GetSelected()
	l.bus.Publish(eventbus.SelectionChangedEvent{
		Index: l.SelectedIndex(),
		Item:  eventItem(item, ok),
	})
	if l.cfg.DidChangeSelection != nil {
		l.cfg.DidChangeSelection(item, ok)
	}
}

func (l *List[T]) commit() {
	if l.cfg.Renderer == nil {
		return
	}
	l.cfg.Renderer.Render(Frame[T]{
		Items:        slices.Clone(l.view),
		Selected:     l.SelectedIndex(),
		Query:        l.query,
		EmptyMessage: l.emptyMessage,
		State:        l.session.State(),
	})
}

func eventItem[T any](item T, ok bool) any {
	if !ok {
		return nil
	}
	return item
}

func closed() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
