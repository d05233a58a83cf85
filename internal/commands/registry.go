package commands

import "sync"

type binding struct {
	id      uint64
	handler Handler
}

// Registry maps command names to handlers. Several owners may bind the same
// name; the most recent binding wins until it is removed.
type Registry struct {
	mu       sync.Mutex
	nextID   uint64
	bindings map[Name][]binding
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[Name][]binding)}
}

// Add binds handlers and returns a function removing exactly these bindings.
// Nil handlers are skipped.
func (r *Registry) Add(handlers map[Name]Handler) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bindings == nil {
		r.bindings = make(map[Name][]binding)
	}

	r.nextID++
	id := r.nextID
	for name, h := range handlers {
		if h == nil {
			continue
		}
		r.bindings[name] = append(r.bindings[name], binding{id: id, handler: h})
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, list := range r.bindings {
		kept := list[:0]
		for _, b := range list {
			if b.id != id {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(r.bindings, name)
		} else {
			r.bindings[name] = kept
		}
	}
}

// Bound reports whether any handler is bound to name
func (r *Registry) Bound(name Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings[name]) > 0
}

// Dispatch runs the most recent handler bound to name. It reports false when
// nothing is bound. The handler runs without the registry lock held, so it may
// add or remove bindings.
func (r *Registry) Dispatch(name Name) (bool, error) {
	r.mu.Lock()
	list := r.bindings[name]
	if len(list) == 0 {
		r.mu.Unlock()
		return false, nil
	}
	h := list[len(list)-1].handler
	r.mu.Unlock()

	return true, h()
}
