// Package mcp exposes grouped CipherTrust Manager administration tools
// over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/logging"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/metrics"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry/cluster"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry/cte"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry/scheduler"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry/services"
)

// Version is reported to MCP clients during initialization.
const Version = "1.0.0"

// CipherTrustMCPServer wraps the ksctl-backed tool facades and exposes
// them as an MCP server. Each product area is one tool whose action
// parameter selects the operation.
type CipherTrustMCPServer struct {
	server  *sdkmcp.Server
	facades map[string]*dispatch.Facade
	order   []string
	policy  *AccessPolicy
	limiter *Limiter
	secrets []string
}

// BuildFacades constructs every tool facade over the given invoker, in
// registration order.
func BuildFacades(inv ksctl.Invoker) ([]*dispatch.Facade, error) {
	builders := []func(ksctl.Invoker) (*dispatch.Facade, error){
		cte.New,
		cluster.New,
		scheduler.New,
		services.New,
	}
	out := make([]*dispatch.Facade, 0, len(builders))
	for _, build := range builders {
		f, err := build(inv)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// NewCipherTrustMCPServer creates a new MCP server backed by the given
// ksctl invoker. A nil policy falls back to DefaultPolicy and a nil
// limiter disables rate limiting. Secrets are values struck from tool
// output when the policy asks for redaction.
func NewCipherTrustMCPServer(inv ksctl.Invoker, policy *AccessPolicy, limiter *Limiter, secrets ...string) (*CipherTrustMCPServer, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}

	s := &CipherTrustMCPServer{
		facades: make(map[string]*dispatch.Facade),
		policy:  policy,
		limiter: limiter,
		secrets: secrets,
	}

	s.server = sdkmcp.NewServer(
		&sdkmcp.Implementation{
			Name:    "ciphertrust-manager",
			Version: Version,
		},
		&sdkmcp.ServerOptions{
			Instructions: "CipherTrust Manager administration through ksctl. " +
				"Each tool covers one product area and takes an action parameter selecting the operation. " +
				"Call describe_operations for per-action parameters and worked examples.",
		},
	)

	facades, err := BuildFacades(inv)
	if err != nil {
		return nil, err
	}
	for _, f := range facades {
		s.facades[f.Name()] = f
		s.order = append(s.order, f.Name())
		s.registerFacade(f)
	}
	s.registerDescribe()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *CipherTrustMCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &sdkmcp.StdioTransport{})
}

// Facades returns the registered tool facades in registration order.
func (s *CipherTrustMCPServer) Facades() []*dispatch.Facade {
	out := make([]*dispatch.Facade, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.facades[name])
	}
	return out
}

func (s *CipherTrustMCPServer) registerFacade(f *dispatch.Facade) {
	s.server.AddTool(&sdkmcp.Tool{
		Name:        f.Name(),
		Description: f.Description(),
		InputSchema: f.InputSchema(),
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
		return s.dispatch(ctx, f, req)
	})
}

// dispatch runs one tool call end to end: decode, policy, rate limit,
// facade execution, rendering. Failures come back as error results so
// the client always receives the structured payload.
func (s *CipherTrustMCPServer) dispatch(ctx context.Context, f *dispatch.Facade, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
	ctx = logging.WithRequestID(ctx, uuid.NewString())

	bag, err := decodeArguments(req)
	if err != nil {
		metrics.ValidationFailuresTotal.WithLabelValues(f.Name(), "arguments").Inc()
		return errorResult(map[string]any{"error": fmt.Sprintf("Invalid arguments: %v", err)}), nil
	}
	action := bag.Get("action")
	if action == "" {
		metrics.ValidationFailuresTotal.WithLabelValues(f.Name(), "action").Inc()
		return errorResult(map[string]any{"error": "Missing required parameter: action"}), nil
	}

	ctx = logging.WithOperation(ctx, f.Name(), action)
	log := logging.Logger(ctx)

	if !s.policy.CanExecute(f.Name(), action) {
		log.Warn("operation denied by access policy")
		metrics.ToolCallsTotal.WithLabelValues(f.Name(), action, "denied").Inc()
		return errorResult(map[string]any{
			"error": fmt.Sprintf("Operation '%s' is not permitted by the access policy", action),
		}), nil
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, f.Name())
		if err != nil {
			log.Warn("rate limiter unavailable", "error", err)
		} else if !allowed {
			metrics.RateLimitedTotal.WithLabelValues(f.Name()).Inc()
			return errorResult(map[string]any{"error": "Rate limit exceeded, try again shortly"}), nil
		}
	}

	start := time.Now()
	result, err := f.Execute(ctx, action, bag)
	if err != nil {
		log.Error("operation failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		metrics.ToolCallsTotal.WithLabelValues(f.Name(), action, "error").Inc()
		return errorResult(dispatch.Payload(err)), nil
	}

	log.Info("operation completed", "duration_ms", time.Since(start).Milliseconds())
	metrics.ToolCallsTotal.WithLabelValues(f.Name(), action, "ok").Inc()
	return s.render(result), nil
}

// registerDescribe adds the discovery tool that documents every grouped
// operation with its parameter requirements and a worked example.
func (s *CipherTrustMCPServer) registerDescribe() {
	toolNames := make([]any, 0, len(s.order))
	for _, name := range s.order {
		toolNames = append(toolNames, name)
	}

	s.server.AddTool(&sdkmcp.Tool{
		Name: "describe_operations",
		Description: "Describe the operations, parameters, and worked examples of the " +
			"CipherTrust management tools. Pass tool to restrict the listing.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tool": {
					Type:        "string",
					Description: "Restrict the listing to one tool.",
					Enum:        toolNames,
				},
			},
		},
	}, s.describe)
}

func (s *CipherTrustMCPServer) describe(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
	bag, err := decodeArguments(req)
	if err != nil {
		return errorResult(map[string]any{"error": fmt.Sprintf("Invalid arguments: %v", err)}), nil
	}

	if name := bag.Get("tool"); name != "" {
		f, ok := s.facades[name]
		if !ok {
			return errorResult(map[string]any{"error": fmt.Sprintf("Unknown tool: %s", name)}), nil
		}
		return s.render(f.Describe()), nil
	}

	docs := make([]dispatch.Document, 0, len(s.order))
	for _, name := range s.order {
		docs = append(docs, s.facades[name].Describe())
	}
	return s.render(docs), nil
}

// decodeArguments normalizes the incoming arguments payload into a
// params.Bag. Untyped tool handlers receive raw JSON from the SDK.
func decodeArguments(req *sdkmcp.CallToolRequest) (params.Bag, error) {
	return params.Decode(req.Params.Arguments)
}

// render converts a facade result into text content. Structured data is
// pretty printed JSON, bare CLI output passes through as is.
func (s *CipherTrustMCPServer) render(v any) *sdkmcp.CallToolResult {
	var text string
	switch out := v.(type) {
	case string:
		text = out
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			text = fmt.Sprint(v)
		} else {
			text = string(b)
		}
	}
	if s.policy.RedactOutput {
		text = redactSecrets(text, s.secrets)
	}
	return textResult(text, false)
}

func errorResult(payload map[string]any) *sdkmcp.CallToolResult {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		b = []byte(fmt.Sprint(payload))
	}
	return textResult(string(b), true)
}

func textResult(text string, isErr bool) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: isErr,
	}
}
