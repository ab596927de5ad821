package season

import (
	"fmt"
	"sync"
)

// Registry holds one Season Cycle Controller per loaded dynasty. The HTTP
// admin surface and the commissioner-mode scheduler both resolve a dynasty
// ID to its controller through this registry rather than holding their own
// maps.
type Registry struct {
	mu          sync.RWMutex
	controllers map[string]*Controller
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]*Controller)}
}

// Register adds or replaces the controller for dynastyID.
func (r *Registry) Register(dynastyID string, c *Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers[dynastyID] = c
}

// Get returns the controller for dynastyID, or an error if it hasn't been
// loaded into this process.
func (r *Registry) Get(dynastyID string) (*Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.controllers[dynastyID]
	if !ok {
		return nil, fmt.Errorf("season: no controller loaded for dynasty %q", dynastyID)
	}
	return c, nil
}

// DynastyIDs returns every currently loaded dynasty ID.
func (r *Registry) DynastyIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.controllers))
	for id := range r.controllers {
		ids = append(ids, id)
	}
	return ids
}
