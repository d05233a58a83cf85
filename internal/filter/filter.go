package filter

import (
	"errors"
	"fmt"
	"sort"

	"selectlist/internal/fuzzy"
)

// Func fully replaces the default scoring algorithm.
// It receives every item and the query and returns the ordered result.
type Func[T any] func(items []T, query string) ([]T, error)

// Options configures a filter run
type Options[T any] struct {
	// Scorer ranks targets against the query. Nil selects fuzzy.Subsequence.
	Scorer fuzzy.Scorer

	// Key derives the target string for an item. Nil uses ItemString.
	Key func(T) string

	// Custom, when set, replaces scoring entirely. Only MaxResults is applied
	// to its result.
	Custom Func[T]

	// MaxResults caps the result length. Zero or negative means unbounded.
	MaxResults int
}

// Scored pairs an item with the score it was ranked by
type Scored[T any] struct {
	Item  T
	Score float64
}

// Error reports a failure of the scorer or of a custom filter.
// The filter engine never recovers from these; the caller decides what to show.
type Error struct {
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("filter %q: %v", e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFilterError reports whether err is, or wraps, a filter Error
func IsFilterError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}

// Filter returns the items matching query, best first, capped at MaxResults.
// An empty query returns every item in its original order.
// Items with equal scores keep their relative input order.
func Filter[T any](items []T, query string, opts Options[T]) ([]T, error) {
	if opts.Custom != nil {
		result, err := runCustom(opts.Custom, items, query)
		if err != nil {
			return nil, err
		}
		return capResults(result, opts.MaxResults), nil
	}

	ranked, err := Ranked(items, query, opts)
	if err != nil {
		return nil, err
	}
	result := make([]T, len(ranked))
	for i, s := range ranked {
		result[i] = s.Item
	}
	return result, nil
}

// Ranked is Filter with the scores kept. Custom filters are not supported here
// because they produce no scores; Ranked ignores Options.Custom.
// With an empty query every item is returned with a zero score.
func Ranked[T any](items []T, query string, opts Options[T]) (ranked []Scored[T], err error) {
	if query == "" {
		ranked = make([]Scored[T], len(items))
		for i, item := range items {
			ranked[i] = Scored[T]{Item: item}
		}
		return capResults(ranked, opts.MaxResults), nil
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = fuzzy.Subsequence{}
	}
	key := opts.Key
	if key == nil {
		key = ItemString[T]
	}

	defer func() {
		if r := recover(); r != nil {
			ranked = nil
			err = &Error{Query: query, Err: fmt.Errorf("scoring panicked: %v", r)}
		}
	}()

	ranked = make([]Scored[T], 0, len(items))
	for _, item := range items {
		score := scorer.Score(key(item), query)
		if score > 0 {
			ranked = append(ranked, Scored[T]{Item: item, Score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return capResults(ranked, opts.MaxResults), nil
}

func runCustom[T any](custom Func[T], items []T, query string) (result []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &Error{Query: query, Err: fmt.Errorf("custom filter panicked: %v", r)}
		}
	}()

	result, err = custom(items, query)
	if err != nil {
		return nil, &Error{Query: query, Err: err}
	}
	return result, nil
}

func capResults[S ~[]E, E any](s S, limit int) S {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// ItemString is the default key: strings are used as-is, fmt.Stringer values
// through String, anything else through fmt.Sprint.
func ItemString[T any](item T) string {
	switch v := any(item).(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
