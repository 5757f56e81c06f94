package ecs

// Registry is the fixed dispatch table from component tag to store. It backs
// single-type removal and presence checks as well as bulk cleanup on destroy.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

// Register binds a store to its tag. Registering a tag twice replaces the store.
func (r *Registry) Register(t ComponentType, store Removable) {
	for int(t) >= len(r.stores) {
		r.stores = append(r.stores, nil)
	}
	r.stores[t] = store
}

// Remove unsets e from the store bound to t. It returns false for unknown tags.
func (r *Registry) Remove(t ComponentType, e Entity) bool {
	s := r.store(t)
	if s == nil {
		return false
	}
	s.Unset(e)
	return true
}

func (r *Registry) Has(t ComponentType, e Entity) bool {
	s := r.store(t)
	return s != nil && s.Has(e)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(e Entity) {
	for _, s := range r.stores {
		if s != nil {
			s.Unset(e)
		}
	}
}

func (r *Registry) store(t ComponentType) Removable {
	if int(t) >= len(r.stores) {
		return nil
	}
	return r.stores[t]
}
