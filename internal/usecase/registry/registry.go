// Package registry holds the ordered, validated set of command definitions.
package registry

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gucli/internal/domain"
)

// ValidationError identifies the definitions that failed load-time checks.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "invalid command definitions:\n  - " + strings.Join(v.Errors, "\n  - ")
}

func (v *ValidationError) add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Registry is an immutable, ordered collection of command definitions,
// keyed by their unique command strings.
type Registry struct {
	defs  []domain.CommandDefinition
	index map[string]int
}

// New validates defs and builds a Registry. Load order is menu order.
// All violations are reported together in a *ValidationError.
func New(defs []domain.CommandDefinition) (*Registry, error) {
	ve := &ValidationError{}
	index := make(map[string]int, len(defs))

	for i, def := range defs {
		if def.Command == "" {
			ve.add("definition %d: command must not be empty", i)
			continue
		}
		if prev, dup := index[def.Command]; dup {
			ve.add("definition %d: duplicate command %q (first at %d)", i, def.Command, prev)
			continue
		}
		if !def.Shell.Valid() {
			ve.add("definition %d (%q): unknown shell %q", i, def.Command, def.Shell)
		}
		if utf8.RuneCountInString(def.Icon) > domain.MaxIconRunes {
			ve.add("definition %d (%q): icon exceeds %d characters", i, def.Command, domain.MaxIconRunes)
		}
		index[def.Command] = i
	}

	if len(ve.Errors) > 0 {
		return nil, ve
	}

	out := make([]domain.CommandDefinition, len(defs))
	copy(out, defs)
	return &Registry{defs: out, index: index}, nil
}

// List returns the definitions in load order.
func (r *Registry) List() []domain.CommandDefinition {
	out := make([]domain.CommandDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Lookup finds a definition by its command string.
func (r *Registry) Lookup(command string) (domain.CommandDefinition, error) {
	i, ok := r.index[command]
	if !ok {
		return domain.CommandDefinition{}, domain.NewDomainError("Registry.Lookup", domain.ErrNotFound, command)
	}
	return r.defs[i], nil
}

// Len returns the number of definitions.
func (r *Registry) Len() int { return len(r.defs) }
