package ksctl

import "strings"

// sensitiveFlags name the flags whose values never appear in logs or audit
// records.
var sensitiveFlags = map[string]bool{
	"--password":              true,
	"--client-password":       true,
	"--client-group-password": true,
}

// Redact returns a copy of args with the values of password-bearing flags
// replaced. Both "--flag value" and "--flag=value" forms are handled.
func Redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		if sensitiveFlags[out[i]] && i+1 < len(out) {
			out[i+1] = "[REDACTED]"
			continue
		}
		if name, _, found := strings.Cut(out[i], "="); found && sensitiveFlags[name] {
			out[i] = name + "=[REDACTED]"
		}
	}
	return out
}
