package owner

import "sync"

// Registry hands out exactly one Owner per user, so the single-writer
// guarantee holds process-wide.
type Registry struct {
	mu     sync.Mutex
	deps   Deps
	owners map[string]*Owner
}

// NewRegistry builds a registry sharing the given dependencies across owners.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:   deps,
		owners: make(map[string]*Owner),
	}
}

// Owner returns the owner for userID, creating it on first use.
func (r *Registry) Owner(userID string) *Owner {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.owners[userID]; ok {
		return existing
	}
	created := newOwner(userID, r.deps)
	r.owners[userID] = created
	return created
}
