package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventItemsLoaded        EventType = "ItemsLoaded"
	EventQueryChanged       EventType = "QueryChanged"
	EventItemsReplaced      EventType = "ItemsReplaced"
	EventSelectionChanged   EventType = "SelectionChanged"
	EventSelectionConfirmed EventType = "SelectionConfirmed"
	EventSessionCancelled   EventType = "SessionCancelled"
	EventFilterFailed       EventType = "FilterFailed"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventError              EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ItemsLoadedEvent is emitted when an item source finishes reading
type ItemsLoadedEvent struct {
	Source string
	Count  int
}

func (e ItemsLoadedEvent) Type() EventType { return EventItemsLoaded }

// QueryChangedEvent is emitted after the filtered view was recomputed for a new query
type QueryChangedEvent struct {
	Query   string
	Matches int
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// ItemsReplacedEvent is emitted after the item set was replaced
type ItemsReplacedEvent struct {
	Count   int
	Matches int
}

func (e ItemsReplacedEvent) Type() EventType { return EventItemsReplaced }

// SelectionChangedEvent carries the newly selected item.
// Index is -1 and Item is nil when nothing is selected.
type SelectionChangedEvent struct {
	Index int
	Item  any
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// SelectionConfirmedEvent is emitted once when the session is confirmed
type SelectionConfirmedEvent struct {
	Index int
	Item  any
	Query string
}

func (e SelectionConfirmedEvent) Type() EventType { return EventSelectionConfirmed }

// SessionCancelledEvent is emitted once when the session is cancelled
type SessionCancelledEvent struct {
	Query string
}

func (e SessionCancelledEvent) Type() EventType { return EventSessionCancelled }

// FilterFailedEvent is emitted when a scorer or custom filter failed
type FilterFailedEvent struct {
	Query string
	Err   error
}

func (e FilterFailedEvent) Type() EventType { return EventFilterFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Scorer string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
