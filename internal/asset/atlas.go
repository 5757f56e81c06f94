package asset

import (
	"path"
	"sync"
)

// Handle is an opaque reference to a loaded asset. Zero is never issued.
type Handle uint32

// Atlas deduplicates assets by cleaned path: every caller that resolves the
// same path shares one handle, like sprites sharing one texture. Loading the
// bytes is left to the presentation layer, which keys its own data by Handle.
type Atlas struct {
	mu      sync.RWMutex
	handles map[string]Handle
	paths   []string // index = handle-1
}

func NewAtlas() *Atlas {
	return &Atlas{handles: make(map[string]Handle)}
}

// Resolve returns the handle for p, issuing a new one on first use.
// Empty paths resolve to zero.
func (a *Atlas) Resolve(p string) Handle {
	if p == "" {
		return 0
	}
	p = path.Clean(p)

	a.mu.RLock()
	h, ok := a.handles[p]
	a.mu.RUnlock()
	if ok {
		return h
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// Double-check after acquiring write lock
	if h, ok := a.handles[p]; ok {
		return h
	}
	a.paths = append(a.paths, p)
	h = Handle(len(a.paths))
	a.handles[p] = h
	return h
}

// Path returns the path a handle was issued for.
func (a *Atlas) Path(h Handle) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if h == 0 || int(h) > len(a.paths) {
		return "", false
	}
	return a.paths[h-1], true
}

func (a *Atlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.paths)
}
