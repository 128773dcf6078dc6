package mcp

import "strings"

// redactSecrets replaces any occurrence of a configured secret value in
// output with [REDACTED]. Values of 3 characters or fewer are not redacted
// to avoid excessive false positives.
func redactSecrets(output string, secrets []string) string {
	for _, value := range secrets {
		if len(value) > 3 {
			output = strings.ReplaceAll(output, value, "[REDACTED]")
		}
	}
	return output
}
