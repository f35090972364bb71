// Package capability catalogs what the assistant can do.
//
// Each capability binds an action type to a handler function and a declared
// parameter schema. The dispatcher resolves action types here instead of
// switching over type strings, so adding a capability is a pure-addition
// change: register it at startup and the dispatcher, resolver prompt, and
// fallback tables pick it up without modification.
//
// The registry is populated once during startup and frozen before the first
// request, which keeps the hot dispatch path lock-free.
package capability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateCapability is returned when a type is registered twice.
	ErrDuplicateCapability = errors.New("capability already registered")

	// ErrUnknownCapability is returned when resolving an unregistered type.
	ErrUnknownCapability = errors.New("unknown capability")
)

// Handler executes one capability invocation. Parameters arrive with
// declared optional defaults already merged in. The returned string is the
// human-readable result surfaced in the action outcome.
type Handler func(ctx context.Context, params map[string]any) (string, error)

// Entry describes one registered capability.
type Entry struct {
	Type        string
	Description string
	Handler     Handler

	// Required lists parameter names that must be present at dispatch
	// time; the handler is never invoked when one is missing.
	Required []string

	// Optional maps parameter names to the defaults merged in when the
	// action does not supply them.
	Optional map[string]any
}

// Registry is the capability catalog. Concurrent reads are safe; Register
// calls must finish before serving requests.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a capability. The handler must be non-nil and the type
// unique; duplicate registration is a startup-time programming error, not
// something to silently tolerate.
func (r *Registry) Register(e Entry) error {
	if e.Type == "" {
		return fmt.Errorf("capability type must not be empty")
	}
	if e.Handler == nil {
		return fmt.Errorf("capability %q has no handler", e.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[e.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCapability, e.Type)
	}
	r.entries[e.Type] = e
	return nil
}

// Resolve looks up a capability by action type.
func (r *Registry) Resolve(actionType string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[actionType]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownCapability, actionType)
	}
	return e, nil
}

// Types returns all registered action types, sorted for stable prompts.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Entries returns all registered capabilities sorted by type, for building
// the oracle's capability catalog prompt.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Type < entries[j].Type })
	return entries
}
