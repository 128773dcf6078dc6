package dispatch

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Document is the discovery payload for one grouped tool. It carries the
// per-operation requirement table, which standard JSON Schema cannot.
type Document struct {
	Tool         string                 `json:"tool"`
	Description  string                 `json:"description"`
	Operations   []string               `json:"operations"`
	Properties   map[string]Property    `json:"properties"`
	Requirements map[string]Requirement `json:"action_requirements"`
}

// Describe returns the facade's full discovery document.
func (f *Facade) Describe() Document {
	return Document{
		Tool:         f.name,
		Description:  f.description,
		Operations:   f.ops,
		Properties:   f.props,
		Requirements: f.reqs,
	}
}

// InputSchema builds the JSON schema advertised for the facade's tool:
// the merged parameter properties plus the action enum. Only action is
// schema-required; per-operation requirements are validated at dispatch
// time. Unknown extra parameters are accepted and ignored, so
// additionalProperties stays unset.
func (f *Facade) InputSchema() *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(f.props)+1)

	actionEnum := make([]any, len(f.ops))
	for i, op := range f.ops {
		actionEnum[i] = op
	}
	props["action"] = &jsonschema.Schema{
		Type:        "string",
		Description: "The operation to perform.",
		Enum:        actionEnum,
	}

	for key, prop := range f.props {
		s := &jsonschema.Schema{
			Type:        prop.Type,
			Description: prop.Description,
		}
		if len(prop.Enum) > 0 {
			s.Enum = make([]any, len(prop.Enum))
			for i, v := range prop.Enum {
				s.Enum[i] = v
			}
		}
		if prop.Default != nil {
			if raw, err := json.Marshal(prop.Default); err == nil {
				s.Default = json.RawMessage(raw)
			}
		}
		props[key] = s
	}

	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"action"},
	}
}
