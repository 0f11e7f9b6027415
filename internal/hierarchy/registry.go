package hierarchy

import "fmt"

// Registry maps entity ids to validated entities for the duration of one
// Format call. It is not safe for concurrent use and must not outlive the
// call that built it.
type Registry struct {
	byID  map[int64]*Entity
	order []*Entity
}

// NewRegistry returns an empty registry. sizeHint preallocates storage.
func NewRegistry(sizeHint int) *Registry {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Registry{
		byID:  make(map[int64]*Entity, sizeHint),
		order: make([]*Entity, 0, sizeHint),
	}
}

// Register adds e. An id that is already registered is rejected and the
// registry is left unchanged.
func (r *Registry) Register(e *Entity) error {
	if _, dup := r.byID[e.ID]; dup {
		return &EntityValidationError{Field: "id", Reason: fmt.Sprintf("duplicate id %d", e.ID)}
	}
	r.byID[e.ID] = e
	r.order = append(r.order, e)
	return nil
}

// Lookup returns the entity registered under id.
func (r *Registry) Lookup(id int64) (*Entity, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Len returns the number of registered entities.
func (r *Registry) Len() int { return len(r.order) }

// Entities returns the registered entities in registration order.
func (r *Registry) Entities() []*Entity { return r.order }
