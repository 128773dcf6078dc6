package dispatch

import "fmt"

// UnknownOperationError reports an action name no registry claims. It is
// produced before any handler or subprocess is touched.
type UnknownOperationError struct {
	Operation string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Unknown action: %s", e.Operation)
}

// MissingParamsError reports a call rejected during validation, before any
// ksctl invocation. Missing holds the unsatisfied parameter names (an
// either-group renders as "a or b") and Example is a worked call for the
// operation.
type MissingParamsError struct {
	Operation string
	Missing   []string
	Example   map[string]any
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("Missing required parameters for action '%s'", e.Operation)
}

// InvocationError reports a ksctl command that ran and failed. Invocations
// are never retried; the failure is reported as-is.
type InvocationError struct {
	Message  string
	Stderr   string
	ExitCode int
}

func (e *InvocationError) Error() string {
	return e.Message
}

// HandlerError wraps an unexpected handler failure, including recovered
// panics.
type HandlerError struct {
	Operation string
	Message   string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("Failed to execute %s: %s", e.Operation, e.Message)
}

// Payload renders a dispatch error into the wire object tool results carry.
func Payload(err error) map[string]any {
	switch e := err.(type) {
	case *MissingParamsError:
		return map[string]any{
			"error":    e.Error(),
			"required": e.Missing,
			"example":  e.Example,
		}
	case *InvocationError:
		return map[string]any{
			"error":     e.Message,
			"stderr":    e.Stderr,
			"exit_code": e.ExitCode,
		}
	default:
		return map[string]any{"error": err.Error()}
	}
}
