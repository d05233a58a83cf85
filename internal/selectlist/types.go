package selectlist

import (
	"selectlist/internal/commands"
	"selectlist/internal/eventbus"
	"selectlist/internal/filter"
	"selectlist/internal/fuzzy"
	"selectlist/internal/render"
	"selectlist/internal/session"
)

// Frame is a snapshot of the list handed to the renderer at commit time
type Frame[T any] struct {
	Items        []T
	Selected     int // -1 when nothing is selected
	Query        string
	EmptyMessage string
	State        session.State
}

// Renderer draws a frame. It is called from the deferred render commit.
type Renderer[T any] interface {
	Render(frame Frame[T])
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc[T any] func(frame Frame[T])

// Render implements Renderer.
func (f RendererFunc[T]) Render(frame Frame[T]) {
	f(frame)
}

// QuerySource is the host's text-input widget
type QuerySource interface {
	GetText() string
	OnDidChange(callback func()) (unsubscribe func())
}

// Config configures a List
type Config[T any] struct {
	Items        []T
	MaxResults   int // zero or negative means unbounded
	EmptyMessage string

	// FilterKeyForItem derives the string the scorer matches against
	FilterKeyForItem func(T) string
	// Filter replaces scoring entirely
	Filter filter.Func[T]
	// Scorer replaces the default subsequence scorer
	Scorer fuzzy.Scorer
	// Equal decides whether the selected item changed across SetItems.
	// Nil uses reflect.DeepEqual.
	Equal func(a, b T) bool

	DidChangeSelection  func(item T, ok bool)
	DidConfirmSelection func(item T, ok bool)
	DidCancelSelection  func()
	// OnError receives filter failures caused by query source notifications,
	// which have no caller to return an error to.
	OnError func(err error)

	QuerySource QuerySource
	Commands    *commands.Registry
	Renderer    Renderer[T]
	// Poster defers render commits to the host's UI loop. Nil commits inline.
	Poster render.Poster
	Bus    eventbus.EventBus
}

// UpdateOptions carries a partial configuration for Update.
// Nil fields are left unchanged; a non-nil empty Items slice clears the list.
type UpdateOptions[T any] struct {
	Items        []T
	MaxResults   *int
	EmptyMessage *string
}
