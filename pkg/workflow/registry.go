package workflow

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry holds the live cases in memory. One Case per dispute session;
// the registry only hands out the case, all workflow state lives inside it.
type Registry struct {
	cases map[string]*Case
	deps  Deps
	mu    sync.RWMutex
}

// NewRegistry creates an empty case registry. deps are shared by every case
// it creates.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		cases: make(map[string]*Case),
		deps:  deps,
	}
}

// Create starts a new dispute case in the Conversation phase.
func (r *Registry) Create() *Case {
	c := NewCase(uuid.New().String(), r.deps)

	r.mu.Lock()
	r.cases[c.ID()] = c
	r.mu.Unlock()

	return c
}

// Get retrieves a case by ID.
func (r *Registry) Get(caseID string) (*Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[caseID]
	if !ok {
		return nil, fmt.Errorf("case not found: %s", caseID)
	}
	return c, nil
}

// List returns a snapshot of every live case.
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	cases := make([]*Case, 0, len(r.cases))
	for _, c := range r.cases {
		cases = append(cases, c)
	}
	r.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(cases))
	for _, c := range cases {
		snaps = append(snaps, c.Snapshot())
	}
	return snaps
}

// Delete removes a case from the registry.
func (r *Registry) Delete(caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[caseID]; !ok {
		return fmt.Errorf("case not found: %s", caseID)
	}
	delete(r.cases, caseID)
	return nil
}
