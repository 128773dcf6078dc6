package params

// Flag is the three-valued state of an optional boolean parameter. Omitted
// parameters stay FlagUnset so modify operations can tell "leave the setting
// alone" apart from "switch it off".
type Flag int

const (
	FlagUnset Flag = iota
	FlagTrue
	FlagFalse
)

// String returns "unset", "true" or "false".
func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	}
	return "unset"
}

// Args renders the flag in --name / --no-name form. Unset flags render to
// nothing. The name is given without leading dashes.
func (f Flag) Args(name string) []string {
	switch f {
	case FlagTrue:
		return []string{"--" + name}
	case FlagFalse:
		return []string{"--no-" + name}
	}
	return nil
}

// Assign renders the flag in --name / --name=false form, the shape the
// scheduler subcommands take. Unset flags render to nothing.
func (f Flag) Assign(name string) []string {
	switch f {
	case FlagTrue:
		return []string{"--" + name}
	case FlagFalse:
		return []string{"--" + name + "=false"}
	}
	return nil
}
