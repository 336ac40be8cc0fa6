package persona

import (
	"errors"
	"fmt"

	"github.com/easeaico/her-line/internal/types"
)

// ErrUnknownPersona is returned for names that are not registered.
var ErrUnknownPersona = errors.New("unknown persona")

// StateStore defines serialized per-user state access.
type StateStore interface {
	Get(userID string) (types.UserState, bool)
	Update(userID string, fn func(state *types.UserState)) types.UserState
}

// Registry holds the known personas and each user's active selection.
type Registry struct {
	personas    map[string]*types.Persona
	order       []string
	defaultName string
	states      StateStore
}

// NewRegistry registers personas in the given order. defaultName must be one
// of them; empty means the first.
func NewRegistry(personas []*types.Persona, defaultName string, states StateStore) (*Registry, error) {
	if len(personas) == 0 {
		return nil, fmt.Errorf("at least one persona is required")
	}
	if states == nil {
		return nil, fmt.Errorf("state store is nil")
	}

	r := &Registry{
		personas: make(map[string]*types.Persona, len(personas)),
		states:   states,
	}
	for _, p := range personas {
		if err := Validate(p); err != nil {
			return nil, err
		}
		if _, dup := r.personas[p.Name]; dup {
			return nil, fmt.Errorf("persona %q registered twice", p.Name)
		}
		r.personas[p.Name] = p
		r.order = append(r.order, p.Name)
	}

	if defaultName == "" {
		defaultName = r.order[0]
	}
	if _, ok := r.personas[defaultName]; !ok {
		return nil, fmt.Errorf("default persona %q: %w", defaultName, ErrUnknownPersona)
	}
	r.defaultName = defaultName
	return r, nil
}

// Lookup returns the persona registered under name.
func (r *Registry) Lookup(name string) (*types.Persona, bool) {
	p, ok := r.personas[name]
	return p, ok
}

// Names returns the registered persona names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Default returns the persona used for users who never switched.
func (r *Registry) Default() *types.Persona {
	return r.personas[r.defaultName]
}

// Current returns the user's active persona.
func (r *Registry) Current(userID string) (*types.Persona, error) {
	state, _ := r.states.Get(userID)
	if state.Persona == "" {
		return r.Default(), nil
	}
	p, ok := r.personas[state.Persona]
	if !ok {
		return nil, fmt.Errorf("user %s has persona %q: %w", userID, state.Persona, ErrUnknownPersona)
	}
	return p, nil
}

// Set switches the user's active persona.
func (r *Registry) Set(userID, name string) (*types.Persona, error) {
	p, ok := r.personas[name]
	if !ok {
		return nil, fmt.Errorf("persona %q: %w", name, ErrUnknownPersona)
	}
	r.states.Update(userID, func(state *types.UserState) {
		state.Persona = name
	})
	return p, nil
}
