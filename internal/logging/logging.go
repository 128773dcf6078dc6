// Package logging provides context-aware logging utilities.
package logging

import (
	"context"
	"log/slog"
	"os"
)

// RequestIDKey is the context key for the request ID.
type RequestIDKey struct{}

// OperationKey is the context key for the tool and operation being served.
type OperationKey struct{}

// Operation identifies one dispatched tool call.
type Operation struct {
	Tool   string
	Action string
}

// Setup installs the default slog logger. Logs go to stderr so they never
// interleave with the MCP stdio transport.
func Setup(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, id)
}

// GetRequestID returns the request ID from the context, or empty string if not found.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithOperation returns a context carrying the tool call identity.
func WithOperation(ctx context.Context, tool, action string) context.Context {
	return context.WithValue(ctx, OperationKey{}, Operation{Tool: tool, Action: action})
}

// GetOperation returns the tool call identity from the context, or zero
// values if not found.
func GetOperation(ctx context.Context) Operation {
	if op, ok := ctx.Value(OperationKey{}).(Operation); ok {
		return op
	}
	return Operation{}
}

// Logger returns a logger with the request_id from the context.
func Logger(ctx context.Context) *slog.Logger {
	requestID := GetRequestID(ctx)
	if requestID != "" {
		return slog.Default().With("request_id", requestID)
	}
	return slog.Default()
}
