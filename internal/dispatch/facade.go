package dispatch

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

// Facade merges operation registries behind one grouped tool and runs the
// shared dispatch sequence: route, validate, delegate, recover.
type Facade struct {
	name        string
	description string
	routes      map[string]Registry
	props       map[string]Property
	reqs        map[string]Requirement
	ops         []string
}

// New merges the given registries. Two registries claiming the same
// operation, or redefining a shared parameter with a different schema, is
// a configuration bug and fails construction.
func New(name, description string, registries ...Registry) (*Facade, error) {
	f := &Facade{
		name:        name,
		description: description,
		routes:      make(map[string]Registry),
		props:       make(map[string]Property),
		reqs:        make(map[string]Requirement),
	}
	for _, reg := range registries {
		for _, op := range reg.Operations() {
			if prev, ok := f.routes[op]; ok {
				return nil, fmt.Errorf("facade %s: operation %s claimed by both %s and %s", name, op, prev.Name(), reg.Name())
			}
			f.routes[op] = reg
			f.reqs[op] = reg.ActionRequirements()[op]
			f.ops = append(f.ops, op)
		}
		for key, prop := range reg.SchemaProperties() {
			if prev, ok := f.props[key]; ok && !reflect.DeepEqual(prev, prop) {
				return nil, fmt.Errorf("facade %s: parameter %s redefined by %s", name, key, reg.Name())
			}
			f.props[key] = prop
		}
	}
	sort.Strings(f.ops)
	return f, nil
}

// Must is New for facades assembled from static registries.
func Must(name, description string, registries ...Registry) *Facade {
	f, err := New(name, description, registries...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Facade) Name() string { return f.name }

func (f *Facade) Description() string { return f.description }

// Operations returns all operation names across registries, sorted.
func (f *Facade) Operations() []string { return f.ops }

// Requirement returns the requirement entry for one operation.
func (f *Facade) Requirement(op string) (Requirement, bool) {
	req, ok := f.reqs[op]
	return req, ok
}

// Execute dispatches one tool call. Unknown actions and validation
// failures return before any registry is touched. Handler panics and
// unexpected error types are folded into a HandlerError so a single bad
// call cannot take the server down or leak internals.
func (f *Facade) Execute(ctx context.Context, op string, p params.Bag) (result any, err error) {
	reg, ok := f.routes[op]
	if !ok {
		return nil, &UnknownOperationError{Operation: op}
	}

	req := f.reqs[op]
	if missing := req.Missing(p); len(missing) > 0 {
		return nil, &MissingParamsError{Operation: op, Missing: missing, Example: req.Example}
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &HandlerError{Operation: op, Message: fmt.Sprint(r)}
		}
	}()

	result, err = reg.Execute(ctx, op, p)
	if err != nil {
		switch err.(type) {
		case *UnknownOperationError, *MissingParamsError, *InvocationError, *HandlerError:
			return nil, err
		default:
			return nil, &HandlerError{Operation: op, Message: err.Error()}
		}
	}
	return result, nil
}
