package selectlist

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectlist/internal/commands"
	"selectlist/internal/filter"
	"selectlist/internal/fuzzy"
	"selectlist/internal/render"
	"selectlist/internal/session"
)

var fruits = []string{"apple", "banana", "grape", "pear"}

type selectionRecorder struct {
	items []string
	oks   []bool
}

func (r *selectionRecorder) record(item string, ok bool) {
	r.items = append(r.items, item)
	r.oks = append(r.oks, ok)
}

func (r *selectionRecorder) reset() {
	r.items = nil
	r.oks = nil
}

type fakeSource struct {
	text      string
	callbacks map[int]func()
	nextID    int
}

func newFakeSource(text string) *fakeSource {
	return &fakeSource{text: text, callbacks: map[int]func(){}}
}

func (s *fakeSource) GetText() string { return s.text }

func (s *fakeSource) OnDidChange(callback func()) func() {
	id := s.nextID
	s.nextID++
	s.callbacks[id] = callback
	return func() { delete(s.callbacks, id) }
}

func (s *fakeSource) Type(text string) {
	s.text = text
	for _, cb := range s.callbacks {
		cb()
	}
}

func newList(t *testing.T, cfg Config[string]) *List[string] {
	t.Helper()
	l, err := New(cfg)
	require.NoError(t, err)
	return l
}

func selected(t *testing.T, l *List[string]) string {
	t.Helper()
	item, ok := l.GetSelected()
	require.True(t, ok, "expected a selection")
	return item
}

func TestRankedScenario(t *testing.T) {
	src := newFakeSource("pe")
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{
		Items:              fruits,
		QuerySource:        src,
		DidChangeSelection: rec.record,
	})

	assert.Equal(t, []string{"pear", "grape", "apple"}, l.View())
	assert.Equal(t, "pear", selected(t, l))
	assert.Equal(t, "pe", l.GetQuery())
	assert.Equal(t, []string{"pear"}, rec.items, "initial selection is announced once")
}

func TestEmptyQueryCycle(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})

	assert.Equal(t, fruits, l.View())
	start := selected(t, l)
	for i := 0; i < len(fruits); i++ {
		require.NoError(t, l.SelectNext())
	}
	assert.Equal(t, start, selected(t, l))
}

func TestSetItemsClampsSelection(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})
	require.NoError(t, l.SelectNext())
	require.NoError(t, l.SelectNext())
	require.Equal(t, 2, l.SelectedIndex())

	require.NoError(t, l.SetItems([]string{"kiwi"}))
	assert.Equal(t, 0, l.SelectedIndex())
	assert.Equal(t, "kiwi", selected(t, l))
}

func TestSetItemsKeepsIndexInRange(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})
	require.NoError(t, l.SelectLast())

	require.NoError(t, l.SetItems([]string{"a", "b", "c", "d", "e", "f"}))
	assert.Equal(t, 3, l.SelectedIndex(), "index still in range is kept")
}

func TestSetItemsResetsOutOfRangeIndex(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})
	require.NoError(t, l.SelectLast())
	require.Equal(t, 3, l.SelectedIndex())

	require.NoError(t, l.SetItems([]string{"a", "b", "c"}))
	assert.Equal(t, 0, l.SelectedIndex())
	assert.Equal(t, "a", selected(t, l))
}

func TestSetItemsNotifiesOnlyOnChange(t *testing.T) {
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{Items: fruits, DidChangeSelection: rec.record})
	rec.reset()

	require.NoError(t, l.SetItems([]string{"apple", "cherry"}))
	assert.Empty(t, rec.items, "selected item unchanged")

	require.NoError(t, l.SetItems([]string{"cherry", "apple"}))
	assert.Equal(t, []string{"cherry"}, rec.items)

	rec.reset()
	require.NoError(t, l.SetItems(nil))
	assert.Equal(t, []bool{false}, rec.oks, "losing the selection is a change")

	rec.reset()
	require.NoError(t, l.SetItems(nil))
	assert.Empty(t, rec.oks, "still nothing selected")
}

func TestSetItemsUsesEqual(t *testing.T) {
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{
		Items:              []string{"Apple"},
		DidChangeSelection: rec.record,
		Equal:              strings.EqualFold,
	})
	rec.reset()

	require.NoError(t, l.SetItems([]string{"APPLE"}))
	assert.Empty(t, rec.items)
}

func TestSetQueryResetsSelection(t *testing.T) {
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{Items: fruits, DidChangeSelection: rec.record})
	require.NoError(t, l.SelectLast())
	require.NoError(t, l.SelectPrevious())
	rec.reset()

	require.NoError(t, l.SetQuery("a"))
	assert.Equal(t, 0, l.SelectedIndex())
	assert.Len(t, rec.items, 1)

	require.NoError(t, l.SelectNext())
	require.NoError(t, l.SetQuery("a"))
	assert.Equal(t, 0, l.SelectedIndex(), "same query still resets")
}

func TestNavigationAlwaysNotifies(t *testing.T) {
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{Items: []string{"only"}, DidChangeSelection: rec.record})
	rec.reset()

	require.NoError(t, l.SelectNext())
	require.NoError(t, l.SelectPrevious())
	require.NoError(t, l.SelectFirst())
	require.NoError(t, l.SelectLast())
	assert.Equal(t, []string{"only", "only", "only", "only"}, rec.items)
}

func TestNavigationOnEmptyView(t *testing.T) {
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{Items: fruits, DidChangeSelection: rec.record})
	require.NoError(t, l.SetQuery("zzz"))
	rec.reset()

	for _, op := range []func() error{l.SelectNext, l.SelectPrevious, l.SelectFirst, l.SelectLast} {
		require.NoError(t, op())
		_, ok := l.GetSelected()
		assert.False(t, ok)
		assert.Equal(t, -1, l.SelectedIndex())
	}
	assert.Equal(t, []bool{false, false, false, false}, rec.oks)
}

func TestBoundaryOps(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})
	for i := 0; i < len(fruits); i++ {
		require.NoError(t, l.SelectFirst())
		for j := 0; j < i; j++ {
			require.NoError(t, l.SelectNext())
		}
		require.NoError(t, l.SelectFirst())
		assert.Equal(t, 0, l.SelectedIndex())
		require.NoError(t, l.SelectLast())
		assert.Equal(t, len(fruits)-1, l.SelectedIndex())
	}
}

func TestConfirmOnce(t *testing.T) {
	var confirmed []string
	cancelled := 0
	l := newList(t, Config[string]{
		Items: fruits,
		DidConfirmSelection: func(item string, ok bool) {
			require.True(t, ok)
			confirmed = append(confirmed, item)
		},
		DidCancelSelection: func() { cancelled++ },
	})
	require.NoError(t, l.SelectNext())

	require.NoError(t, l.Confirm())
	assert.Equal(t, session.Confirmed, l.State())

	assert.ErrorIs(t, l.Confirm(), session.ErrNotActive)
	assert.ErrorIs(t, l.Cancel(), session.ErrNotActive)
	assert.Equal(t, []string{"banana"}, confirmed)
	assert.Equal(t, 0, cancelled)
	assert.Equal(t, session.Confirmed, l.State())
}

func TestConfirmWithEmptyView(t *testing.T) {
	var gotOK = true
	l := newList(t, Config[string]{
		Items:               fruits,
		DidConfirmSelection: func(_ string, ok bool) { gotOK = ok },
	})
	require.NoError(t, l.SetQuery("xyz"))
	require.NoError(t, l.Confirm())
	assert.False(t, gotOK)
}

func TestCancel(t *testing.T) {
	cancelled := 0
	confirmed := 0
	l := newList(t, Config[string]{
		Items:               fruits,
		DidCancelSelection:  func() { cancelled++ },
		DidConfirmSelection: func(string, bool) { confirmed++ },
	})

	require.NoError(t, l.Cancel())
	assert.ErrorIs(t, l.Cancel(), session.ErrNotActive)
	assert.ErrorIs(t, l.Confirm(), session.ErrNotActive)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 0, confirmed)
	assert.Equal(t, session.Cancelled, l.State())
}

func TestNoMutationAfterTerminal(t *testing.T) {
	src := newFakeSource("")
	rec := &selectionRecorder{}
	reg := commands.NewRegistry()
	l := newList(t, Config[string]{
		Items:              fruits,
		QuerySource:        src,
		Commands:           reg,
		DidChangeSelection: rec.record,
	})
	require.NoError(t, l.SelectNext())
	require.NoError(t, l.Cancel())
	rec.reset()

	assert.Empty(t, src.callbacks, "query subscription released")
	assert.False(t, reg.Bound(commands.MoveNext), "command bindings released")

	src.Type("pe")
	assert.Equal(t, "", l.GetQuery())

	assert.ErrorIs(t, l.SetQuery("x"), session.ErrNotActive)
	assert.ErrorIs(t, l.SetItems([]string{"x"}), session.ErrNotActive)
	assert.ErrorIs(t, l.SelectNext(), session.ErrNotActive)
	assert.ErrorIs(t, l.AttachQuerySource(newFakeSource("a")), session.ErrNotActive)

	assert.Equal(t, fruits, l.Items())
	assert.Equal(t, 1, l.SelectedIndex())
	assert.Empty(t, rec.items)
}

func TestQuerySourceDrivesQuery(t *testing.T) {
	src := newFakeSource("")
	l := newList(t, Config[string]{Items: fruits, QuerySource: src})

	src.Type("pe")
	assert.Equal(t, "pe", l.GetQuery())
	assert.Equal(t, "pear", selected(t, l))

	l.DetachQuerySource()
	src.Type("ban")
	assert.Equal(t, "pe", l.GetQuery(), "detached source is ignored")
}

func TestAttachQuerySourceReplacesPrevious(t *testing.T) {
	first := newFakeSource("")
	l := newList(t, Config[string]{Items: fruits, QuerySource: first})

	second := newFakeSource("gr")
	require.NoError(t, l.AttachQuerySource(second))
	assert.Equal(t, "gr", l.GetQuery())
	assert.Equal(t, []string{"grape"}, l.View())
	assert.Empty(t, first.callbacks)

	second.Type("ban")
	assert.Equal(t, []string{"banana"}, l.View())
}

func TestCommandsDispatch(t *testing.T) {
	reg := commands.NewRegistry()
	var confirmed string
	l := newList(t, Config[string]{
		Items:               fruits,
		Commands:            reg,
		DidConfirmSelection: func(item string, _ bool) { confirmed = item },
	})

	steps := []struct {
		name commands.Name
		want int
	}{
		{commands.MoveNext, 1},
		{commands.MoveToLast, 3},
		{commands.MoveNext, 0},
		{commands.MovePrevious, 3},
		{commands.MoveToFirst, 0},
		{commands.MoveNext, 1},
	}
	for _, step := range steps {
		handled, err := reg.Dispatch(step.name)
		require.NoError(t, err)
		require.True(t, handled)
		assert.Equal(t, step.want, l.SelectedIndex(), step.name)
	}

	handled, err := reg.Dispatch(commands.Confirm)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "banana", confirmed)

	handled, _ = reg.Dispatch(commands.Cancel)
	assert.False(t, handled)
}

func TestMaxResults(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits, MaxResults: 2})
	assert.Equal(t, []string{"apple", "banana"}, l.View())

	require.NoError(t, l.SetQuery("pe"))
	assert.Equal(t, []string{"pear", "grape"}, l.View())
}

func TestFilterKeyForItem(t *testing.T) {
	type entry struct {
		ID   int
		Name string
	}
	l, err := New(Config[entry]{
		Items:            []entry{{1, "alpha"}, {2, "beta"}},
		FilterKeyForItem: func(e entry) string { return e.Name },
	})
	require.NoError(t, err)

	require.NoError(t, l.SetQuery("bt"))
	item, ok := l.GetSelected()
	require.True(t, ok)
	assert.Equal(t, 2, item.ID)
}

func TestCustomScorer(t *testing.T) {
	l := newList(t, Config[string]{
		Items: fruits,
		Scorer: fuzzy.ScorerFunc(func(target, query string) float64 {
			return float64(len(target))
		}),
	})
	require.NoError(t, l.SetQuery("x"))
	assert.Equal(t, []string{"banana", "apple", "grape", "pear"}, l.View())
}

func TestFilterFailureRejectsMutation(t *testing.T) {
	boom := errors.New("boom")
	rec := &selectionRecorder{}
	l := newList(t, Config[string]{
		Items: fruits,
		Filter: func(items []string, query string) ([]string, error) {
			if query == "bad" {
				return nil, boom
			}
			return items, nil
		},
		DidChangeSelection: rec.record,
	})
	require.NoError(t, l.SelectNext())
	rec.reset()

	err := l.SetQuery("bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, filter.IsFilterError(err))

	assert.Equal(t, "", l.GetQuery())
	assert.Equal(t, fruits, l.View())
	assert.Equal(t, 1, l.SelectedIndex())
	assert.Empty(t, rec.items)
}

func TestFilterFailureFromQuerySource(t *testing.T) {
	src := newFakeSource("")
	var reported []error
	l := newList(t, Config[string]{
		Items:       fruits,
		QuerySource: src,
		Scorer: fuzzy.ScorerFunc(func(target, query string) float64 {
			panic("scorer exploded")
		}),
		OnError: func(err error) { reported = append(reported, err) },
	})

	src.Type("a")
	require.Len(t, reported, 1)
	assert.True(t, filter.IsFilterError(reported[0]))
	assert.Equal(t, "", l.GetQuery())
}

func TestNewFailsWhenInitialFilterFails(t *testing.T) {
	_, err := New(Config[string]{
		Items:  fruits,
		Filter: func([]string, string) ([]string, error) { return nil, errors.New("nope") },
	})
	assert.True(t, filter.IsFilterError(err))
}

func TestItemsAreCopied(t *testing.T) {
	items := []string{"a", "b"}
	l := newList(t, Config[string]{Items: items})
	items[0] = "z"
	assert.Equal(t, []string{"a", "b"}, l.Items())

	view := l.View()
	view[0] = "z"
	assert.Equal(t, []string{"a", "b"}, l.View())
}

func TestViewDoesNotShareCallerItems(t *testing.T) {
	l := newList(t, Config[string]{
		Items: []string{"a"},
		Filter: func(items []string, query string) ([]string, error) {
			return items, nil
		},
	})

	src := []string{"x", "y"}
	require.NoError(t, l.SetItems(src))
	src[0] = "changed"
	assert.Equal(t, []string{"x", "y"}, l.View())
	assert.Equal(t, []string{"x", "y"}, l.Items())

	src = []string{"p", "q"}
	_, err := l.Update(UpdateOptions[string]{Items: src})
	require.NoError(t, err)
	src[1] = "changed"
	assert.Equal(t, []string{"p", "q"}, l.View())
}

func TestRenderCommitIsDeferredAndCoalesced(t *testing.T) {
	var q render.Queue
	var frames []Frame[string]
	l := newList(t, Config[string]{
		Items:        fruits,
		EmptyMessage: "No matches",
		Poster:       &q,
		Renderer:     RendererFunc[string](func(f Frame[string]) { frames = append(frames, f) }),
	})

	require.NoError(t, l.SetQuery("pe"))
	require.NoError(t, l.SelectNext())
	assert.Empty(t, frames, "nothing renders before the host drains")
	assert.Equal(t, "grape", selected(t, l), "state is updated synchronously")

	q.Drain()
	require.Len(t, frames, 1)
	assert.Equal(t, Frame[string]{
		Items:        []string{"pear", "grape", "apple"},
		Selected:     1,
		Query:        "pe",
		EmptyMessage: "No matches",
		State:        session.Active,
	}, frames[0])
}

func TestUpdate(t *testing.T) {
	var q render.Queue
	var frames []Frame[string]
	l := newList(t, Config[string]{
		Items:    fruits,
		Poster:   &q,
		Renderer: RendererFunc[string](func(f Frame[string]) { frames = append(frames, f) }),
	})
	q.Drain()
	frames = nil

	limit := 1
	msg := "Nothing here"
	done, err := l.Update(UpdateOptions[string]{
		Items:        []string{"kiwi", "lime"},
		MaxResults:   &limit,
		EmptyMessage: &msg,
	})
	require.NoError(t, err)

	select {
	case <-done:
		t.Fatal("done closed before the commit ran")
	default:
	}

	q.Drain()
	<-done
	require.Len(t, frames, 1)
	assert.Equal(t, []string{"kiwi"}, frames[0].Items)
	assert.Equal(t, "Nothing here", frames[0].EmptyMessage)
	assert.Equal(t, []string{"kiwi", "lime"}, l.Items())
}

func TestUpdateClearsItemsWithEmptySlice(t *testing.T) {
	l := newList(t, Config[string]{Items: fruits})

	done, err := l.Update(UpdateOptions[string]{})
	require.NoError(t, err)
	<-done
	assert.Equal(t, fruits, l.Items(), "nil Items leaves the list unchanged")

	done, err = l.Update(UpdateOptions[string]{Items: []string{}})
	require.NoError(t, err)
	<-done
	assert.Empty(t, l.View())
	assert.Equal(t, -1, l.SelectedIndex())
}

func TestUpdateAfterTerminal(t *testing.T) {
	var q render.Queue
	l := newList(t, Config[string]{Items: fruits, Poster: &q})

	pending, err := l.Update(UpdateOptions[string]{Items: []string{"x"}})
	require.NoError(t, err)
	require.NoError(t, l.Confirm())

	<-pending

	done, err := l.Update(UpdateOptions[string]{Items: []string{"y"}})
	assert.ErrorIs(t, err, session.ErrNotActive)
	<-done
	assert.Equal(t, []string{"x"}, l.Items())
}
