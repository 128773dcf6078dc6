package ksctl

import (
	"strconv"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

// Argument vector helpers shared by every operation handler. Flags are
// given without leading dashes; the helpers add them.

// Opt appends "--flag value" when key is present and truthy.
func Opt(args []string, p params.Bag, key, flag string) []string {
	if v, ok := p.String(key); ok {
		return append(args, "--"+flag, v)
	}
	return args
}

// Set appends "--flag value" whenever key is present, keeping explicit
// empty values. Modify operations use it to clear fields.
func Set(args []string, p params.Bag, key, flag string) []string {
	if v, ok := p.Set(key); ok {
		return append(args, "--"+flag, v)
	}
	return args
}

// Switch appends the bare "--flag" when key is truthy.
func Switch(args []string, p params.Bag, key, flag string) []string {
	if p.True(key) {
		return append(args, "--"+flag)
	}
	return args
}

// Tri appends "--flag" or "--no-flag" for explicitly set booleans and
// nothing for omitted ones.
func Tri(args []string, p params.Bag, key, flag string) []string {
	return append(args, p.Flag(key).Args(flag)...)
}

// TriAssign appends "--flag" or "--flag=false" for explicitly set booleans
// and nothing for omitted ones.
func TriAssign(args []string, p params.Bag, key, flag string) []string {
	return append(args, p.Flag(key).Assign(flag)...)
}

// Pair appends the inline JSON flag when key is set, falling back to the
// file variant otherwise. The file parameter and flag are derived by
// suffixing "_file" and "-file"; when both parameters are given the inline
// value wins and the file is ignored.
func Pair(args []string, p params.Bag, key, flag string) []string {
	if v, ok := p.String(key); ok {
		return append(args, "--"+flag, v)
	}
	if v, ok := p.String(key + "_file"); ok {
		return append(args, "--"+flag+"-file", v)
	}
	return args
}

// Page appends the standard pagination flags, defaulting to limit 10 and
// skip 0 when the caller did not pass them.
func Page(args []string, p params.Bag) []string {
	return append(args,
		"--limit", strconv.Itoa(p.IntOr("limit", 10)),
		"--skip", strconv.Itoa(p.IntOr("skip", 0)),
	)
}
