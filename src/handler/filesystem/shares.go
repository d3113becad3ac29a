package filesystem

import (
	"sort"
	"sync"

	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// ShareRegistry stores named share records. It is not coupled to the
// filesystem content: a share may point at a path that does not exist.
type ShareRegistry struct {
	mu     sync.RWMutex
	shares map[string]Share
}

func NewShareRegistry() *ShareRegistry {
	return &ShareRegistry{shares: make(map[string]Share)}
}

// Create records a share, replacing any share with the same name.
func (r *ShareRegistry) Create(name, path, description string) Share {
	share := Share{Name: name, Path: lib.Normalize(path), Description: description}
	r.mu.Lock()
	r.shares[name] = share
	r.mu.Unlock()
	return share
}

func (r *ShareRegistry) Get(name string) (Share, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	share, ok := r.shares[name]
	return share, ok
}

// List returns all shares ordered by name.
func (r *ShareRegistry) List() []Share {
	r.mu.RLock()
	out := make([]Share, 0, len(r.shares))
	for _, s := range r.shares {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *ShareRegistry) Delete(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.shares[name]
	delete(r.shares, name)
	return ok
}
