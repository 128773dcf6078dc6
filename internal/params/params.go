// Package params holds the loosely typed argument bag a grouped tool call
// carries and the accessors operation handlers use to read it.
//
// The accessors mirror the conventions of the upstream REST schemas: a
// required parameter is satisfied by presence (an explicit empty string
// passes), while optional parameters are emitted only when their value is
// truthy. Modify-style operations additionally need to tell "omitted" apart
// from "explicitly false" or "explicitly empty", which is what Flag and the
// Set accessor are for.
package params

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Bag is the decoded argument object of a single tool call. Values keep the
// dynamic types encoding/json produces for any targets: string, float64,
// bool, nil, []any and map[string]any. Unknown keys are preserved untouched;
// handlers read what they know and ignore the rest.
type Bag map[string]any

// Decode unmarshals a raw JSON object into a Bag. A nil or empty payload
// yields an empty bag rather than an error so tools can be called without
// arguments.
func Decode(raw json.RawMessage) (Bag, error) {
	if len(raw) == 0 {
		return Bag{}, nil
	}
	var b Bag
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	if b == nil {
		b = Bag{}
	}
	return b, nil
}

// Has reports whether key is present with a non-nil value. Required-parameter
// validation uses this presence check: empty strings count as present.
func (b Bag) Has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

// Get returns the string rendering of key, or "" when absent. Handlers use
// it for parameters that validation has already guaranteed to be present.
func (b Bag) Get(key string) string {
	v, ok := b[key]
	if !ok || v == nil {
		return ""
	}
	return render(v)
}

// String returns the rendered value of key when the value is truthy. Falsy
// values (absent, nil, false, zero, empty string) report ok=false, matching
// the emit-only-when-set convention of optional CLI flags.
func (b Bag) String(key string) (string, bool) {
	v, ok := b[key]
	if !ok || !truthy(v) {
		return "", false
	}
	return render(v), true
}

// Set returns the rendered value of key whenever it is present and non-nil,
// keeping empty strings and zeros. Modify operations use it to push explicit
// empty values through to the CLI.
func (b Bag) Set(key string) (string, bool) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", false
	}
	return render(v), true
}

// Int returns the integer value of key. JSON numbers arrive as float64 and
// are truncated; numeric strings are accepted for callers that quote their
// pagination values.
func (b Bag) Int(key string) (int, bool) {
	v, ok := b[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// IntOr returns the integer value of key, or def when the key is absent or
// not numeric.
func (b Bag) IntOr(key string, def int) int {
	if n, ok := b.Int(key); ok {
		return n
	}
	return def
}

// True reports whether key is present and truthy.
func (b Bag) True(key string) bool {
	return b.Flag(key) == FlagTrue
}

// Flag returns the three-valued state of an optional boolean parameter:
// FlagUnset when the key is absent or null, otherwise FlagTrue or FlagFalse
// by truthiness.
func (b Bag) Flag(key string) Flag {
	v, ok := b[key]
	if !ok || v == nil {
		return FlagUnset
	}
	if truthy(v) {
		return FlagTrue
	}
	return FlagFalse
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func render(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
