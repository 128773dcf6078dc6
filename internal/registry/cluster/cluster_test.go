package cluster

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
)

type stubInvoker struct {
	calls [][]string
}

func (s *stubInvoker) Execute(ctx context.Context, args []string, domain, authDomain string) *ksctl.Result {
	s.calls = append(s.calls, args)
	return &ksctl.Result{Success: true, Data: map[string]any{"ok": true}}
}

func newTestFacade(t *testing.T) (*dispatch.Facade, *stubInvoker) {
	t.Helper()
	inv := &stubInvoker{}
	f, err := New(inv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return f, inv
}

func TestArgv(t *testing.T) {
	tests := []struct {
		name string
		op   string
		bag  params.Bag
		want []string
	}{
		{
			name: "new cluster",
			op:   "new",
			bag:  params.Bag{"host": "192.168.1.10"},
			want: []string{"cluster", "new", "--host", "192.168.1.10"},
		},
		{
			name: "new cluster with public address",
			op:   "new",
			bag:  params.Bag{"host": "192.168.1.10", "public_address": "cm.example.com"},
			want: []string{"cluster", "new", "--host", "192.168.1.10", "--public-address", "cm.example.com"},
		},
		{
			name: "delete confirms by default",
			op:   "delete",
			bag:  params.Bag{},
			want: []string{"cluster", "delete", "-y"},
		},
		{
			name: "delete without confirmation",
			op:   "delete",
			bag:  params.Bag{"yes": false},
			want: []string{"cluster", "delete"},
		},
		{
			name: "info",
			op:   "info",
			bag:  params.Bag{},
			want: []string{"cluster", "info"},
		},
		{
			name: "summary",
			op:   "summary",
			bag:  params.Bag{},
			want: []string{"cluster", "summary"},
		},
		{
			name: "join with certificates",
			op:   "join",
			bag: params.Bag{
				"host":     "192.168.1.11",
				"member":   "192.168.1.10",
				"cachain":  "/etc/pki/cachain.pem",
				"certfile": "/etc/pki/node.pem",
			},
			want: []string{"cluster", "join", "--host", "192.168.1.11", "--member", "192.168.1.10",
				"--cachain", "/etc/pki/cachain.pem", "--certfile", "/etc/pki/node.pem", "-y"},
		},
		{
			name: "nodes list",
			op:   "nodes_list",
			bag:  params.Bag{},
			want: []string{"cluster", "nodes", "list"},
		},
		{
			name: "nodes get",
			op:   "nodes_get",
			bag:  params.Bag{"id": "node-id-1"},
			want: []string{"cluster", "nodes", "get", "--id", "node-id-1"},
		},
		{
			name: "nodes delete with force",
			op:   "nodes_delete",
			bag:  params.Bag{"id": "node-id-1", "force": true},
			want: []string{"cluster", "nodes", "delete", "--id", "node-id-1", "--force", "-y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, inv := newTestFacade(t)
			if _, err := f.Execute(context.Background(), tt.op, tt.bag); err != nil {
				t.Fatalf("Execute(%s) error = %v", tt.op, err)
			}
			if len(inv.calls) != 1 {
				t.Fatalf("recorded %d invocations, want 1", len(inv.calls))
			}
			if !reflect.DeepEqual(inv.calls[0], tt.want) {
				t.Errorf("argv = %q\nwant   %q", inv.calls[0], tt.want)
			}
		})
	}
}

func TestJoinRequiresMember(t *testing.T) {
	f, inv := newTestFacade(t)

	_, err := f.Execute(context.Background(), "join", params.Bag{"host": "192.168.1.11"})

	var missing *dispatch.MissingParamsError
	if !errors.As(err, &missing) {
		t.Fatalf("Execute() error = %v, want MissingParamsError", err)
	}
	if !reflect.DeepEqual(missing.Missing, []string{"member"}) {
		t.Errorf("Missing = %v, want [member]", missing.Missing)
	}
	if len(inv.calls) != 0 {
		t.Errorf("recorded %d invocations for invalid call, want 0", len(inv.calls))
	}
}

func TestExamples_RoundTrip(t *testing.T) {
	f, _ := newTestFacade(t)

	for op, req := range f.Describe().Requirements {
		t.Run(op, func(t *testing.T) {
			if _, err := f.Execute(context.Background(), op, params.Bag(req.Example)); err != nil {
				t.Errorf("Execute() error = %v", err)
			}
		})
	}
}
