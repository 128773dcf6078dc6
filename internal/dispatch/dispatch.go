// Package dispatch routes grouped tool calls onto operation registries.
//
// A grouped tool exposes one "action" parameter naming the operation plus a
// flat set of operation parameters. Registries declare their operations,
// parameter schemas, and per-operation requirements up front; a Facade
// merges registries, validates incoming calls against the requirement
// table, and delegates to the owning registry. Anything that reaches a
// handler has already passed validation.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

// Property describes one parameter in a grouped tool's input schema.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// Requirement is the parameter contract of one operation. Required names
// are checked for presence, Either groups for at least one truthy member.
// Optional names are informational only and surface through discovery.
type Requirement struct {
	Required []string       `json:"required"`
	Either   [][]string     `json:"either,omitempty"`
	Optional []string       `json:"optional,omitempty"`
	Example  map[string]any `json:"example"`
}

// Missing returns the unsatisfied parameter names for the given call.
// Required keys must be present in the bag; an empty string satisfies
// presence. Either groups need one truthy member and render as a single
// "a or b" entry when none is given.
func (r Requirement) Missing(p params.Bag) []string {
	var missing []string
	for _, key := range r.Required {
		if !p.Has(key) {
			missing = append(missing, key)
		}
	}
	for _, group := range r.Either {
		satisfied := false
		for _, key := range group {
			if p.True(key) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, strings.Join(group, " or "))
		}
	}
	return missing
}

// HandlerFunc executes one operation with an already validated bag.
type HandlerFunc func(ctx context.Context, p params.Bag) (any, error)

// Registry is one family of operations behind a grouped tool.
type Registry interface {
	Name() string
	Operations() []string
	SchemaProperties() map[string]Property
	ActionRequirements() map[string]Requirement
	Execute(ctx context.Context, op string, p params.Bag) (any, error)
}

// Table is the standard Registry implementation: an explicit operation
// table built once at startup. Construction fails when handlers,
// requirements, and properties disagree, so a registry that loads at all
// is internally consistent.
type Table struct {
	name     string
	handlers map[string]HandlerFunc
	props    map[string]Property
	reqs     map[string]Requirement
	ops      []string
}

// NewTable checks that every handler has a requirement entry and vice
// versa, that every name a requirement mentions is a declared property,
// and that every example satisfies its own requirement.
func NewTable(name string, props map[string]Property, reqs map[string]Requirement, handlers map[string]HandlerFunc) (*Table, error) {
	for op := range handlers {
		if _, ok := reqs[op]; !ok {
			return nil, fmt.Errorf("registry %s: operation %s has no requirement entry", name, op)
		}
	}
	for op, req := range reqs {
		if _, ok := handlers[op]; !ok {
			return nil, fmt.Errorf("registry %s: requirement entry %s has no handler", name, op)
		}
		for _, key := range req.Required {
			if _, ok := props[key]; !ok {
				return nil, fmt.Errorf("registry %s: operation %s requires undeclared parameter %s", name, op, key)
			}
		}
		for _, group := range req.Either {
			for _, key := range group {
				if _, ok := props[key]; !ok {
					return nil, fmt.Errorf("registry %s: operation %s accepts undeclared parameter %s", name, op, key)
				}
			}
		}
		for _, key := range req.Optional {
			if _, ok := props[key]; !ok {
				return nil, fmt.Errorf("registry %s: operation %s lists undeclared parameter %s", name, op, key)
			}
		}
		if req.Example == nil {
			return nil, fmt.Errorf("registry %s: operation %s has no example", name, op)
		}
		if missing := req.Missing(params.Bag(req.Example)); len(missing) > 0 {
			return nil, fmt.Errorf("registry %s: example for %s is missing %s", name, op, strings.Join(missing, ", "))
		}
	}

	ops := make([]string, 0, len(handlers))
	for op := range handlers {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	return &Table{
		name:     name,
		handlers: handlers,
		props:    props,
		reqs:     reqs,
		ops:      ops,
	}, nil
}

// MustTable is NewTable for registries assembled from static tables, where
// a construction error is a programming bug.
func MustTable(name string, props map[string]Property, reqs map[string]Requirement, handlers map[string]HandlerFunc) *Table {
	t, err := NewTable(name, props, reqs, handlers)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Name() string { return t.name }

// Operations returns the operation names in sorted order.
func (t *Table) Operations() []string { return t.ops }

func (t *Table) SchemaProperties() map[string]Property { return t.props }

func (t *Table) ActionRequirements() map[string]Requirement { return t.reqs }

// Execute runs the named operation. The facade validates before
// delegating, so handlers see only bags that satisfy their requirement.
func (t *Table) Execute(ctx context.Context, op string, p params.Bag) (any, error) {
	h, ok := t.handlers[op]
	if !ok {
		return nil, &UnknownOperationError{Operation: op}
	}
	return h(ctx, p)
}
