// Package ksctl runs the ksctl command line client and normalizes every
// invocation into a uniform result envelope.
package ksctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/audit"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/config"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/logging"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/metrics"
)

// Result is the envelope every invocation produces. A failed command is a
// representable outcome, not a Go error: callers inspect Success.
type Result struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Error    string `json:"error,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// Invoker executes ksctl argument vectors. Implementations must never
// return a nil Result.
type Invoker interface {
	Execute(ctx context.Context, args []string, domain, authDomain string) *Result
}

// CLI is the production Invoker: one ksctl subprocess per call. Connection
// flags from configuration are appended to every vector, and the
// domain/auth-domain scope is appended last, with per-call values winning
// over configured defaults.
type CLI struct {
	path       string
	global     []string
	domain     string
	authDomain string
	timeout    time.Duration
	recorder   *audit.Recorder
}

// New builds a CLI invoker from configuration. The recorder may be nil, in
// which case invocations are not written to the audit trail.
func New(cfg *config.Config, recorder *audit.Recorder) *CLI {
	ct := cfg.CipherTrust
	var global []string
	if ct.URL != "" {
		global = append(global, "--url", ct.URL)
	}
	if ct.User != "" {
		global = append(global, "--user", ct.User)
	}
	if ct.Password != "" {
		global = append(global, "--password", ct.Password)
	}
	if ct.NoSSLVerify {
		global = append(global, "--nosslverify")
	}
	if cfg.Ksctl.ConfigFile != "" {
		global = append(global, "--configfile", cfg.Ksctl.ConfigFile)
	}

	return &CLI{
		path:       cfg.Ksctl.Path,
		global:     global,
		domain:     ct.Domain,
		authDomain: ct.AuthDomain,
		timeout:    cfg.Ksctl.Timeout,
		recorder:   recorder,
	}
}

// Execute runs one ksctl command and captures its outcome. Commands that
// exit non-zero or time out come back as failure envelopes; retries are the
// caller's decision and none are made here.
func (c *CLI) Execute(ctx context.Context, args []string, domain, authDomain string) *Result {
	full := make([]string, 0, len(args)+len(c.global)+4)
	full = append(full, args...)
	full = append(full, c.global...)

	if domain == "" {
		domain = c.domain
	}
	if authDomain == "" {
		authDomain = c.authDomain
	}
	if domain != "" {
		full = append(full, "--domain", domain)
	}
	if authDomain != "" {
		full = append(full, "--auth-domain", authDomain)
	}

	op := logging.GetOperation(ctx)
	log := logging.Logger(ctx)
	log.Debug("invoking ksctl", "tool", op.Tool, "operation", op.Action, "args", Redact(full))

	execCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, c.path, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	metrics.InvocationsInFlight.Inc()
	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)
	metrics.InvocationsInFlight.Dec()

	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		res.Success = true
	} else {
		// The deadline check comes first: a timed out process is killed and
		// surfaces as an ExitError too.
		var exitErr *exec.ExitError
		switch {
		case execCtx.Err() != nil:
			res.ExitCode = -1
			res.Error = fmt.Sprintf("ksctl command timed out after %s", c.timeout)
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
			res.Error = strings.TrimSpace(res.Stderr)
			if res.Error == "" {
				res.Error = fmt.Sprintf("ksctl exited with code %d", res.ExitCode)
			}
		default:
			res.ExitCode = -1
			res.Error = fmt.Sprintf("run ksctl: %v", err)
		}
	}

	if res.Success && res.Stdout != "" {
		var data any
		if jsonErr := json.Unmarshal([]byte(res.Stdout), &data); jsonErr == nil {
			res.Data = data
		}
	}

	status := "success"
	if !res.Success {
		status = "failure"
		log.Warn("ksctl invocation failed",
			"tool", op.Tool, "operation", op.Action,
			"exit_code", res.ExitCode, "error", res.Error)
	}
	metrics.InvocationsTotal.WithLabelValues(op.Tool, op.Action, status).Inc()
	metrics.InvocationDuration.WithLabelValues(op.Tool, op.Action).Observe(duration.Seconds())

	c.recorder.Record(&audit.Entry{
		Tool:       op.Tool,
		Operation:  op.Action,
		Argv:       Redact(full),
		Success:    res.Success,
		ExitCode:   res.ExitCode,
		Error:      res.Error,
		DurationMS: duration.Milliseconds(),
		RequestID:  logging.GetRequestID(ctx),
	})

	return res
}

// Version probes the ksctl binary and returns its version output.
func (c *CLI) Version(ctx context.Context) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(execCtx, c.path, "version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("probe ksctl version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Path returns the configured ksctl binary path.
func (c *CLI) Path() string {
	return c.path
}
