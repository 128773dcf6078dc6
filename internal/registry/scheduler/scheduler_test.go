package scheduler

import (
	"context"
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
			name: "create key rotation config",
			op:   "configs_create",
			bag: params.Bag{
				"job_type":                "key-rotation",
				"name":                    "WeeklyKeyRotation",
				"run_at":                  "0 9 * * 1",
				"key_query_json":          `{"labels": {"env": "prod"}}`,
				"deactivate_replaced_key": float64(86400),
			},
			want: []string{"scheduler", "configs", "create", "key-rotation",
				"--name", "WeeklyKeyRotation", "--run-at", "0 9 * * 1",
				"--key-query-json", `{"labels": {"env": "prod"}}`,
				"--deactivate-replaced-key", "86400"},
		},
		{
			name: "create disabled config",
			op:   "configs_create",
			bag: params.Bag{
				"job_type":    "backup",
				"name":        "NightlyBackup",
				"run_at":      "0 2 * * *",
				"disabled":    true,
				"backup_type": "database",
			},
			want: []string{"scheduler", "configs", "create", "backup",
				"--name", "NightlyBackup", "--run-at", "0 2 * * *",
				"--disabled", "--backup-type", "database"},
		},
		{
			name: "create cckm sync uses underscore flags",
			op:   "configs_create",
			bag: params.Bag{
				"job_type":        "cckm-synchronization",
				"name":            "AzureSync",
				"run_at":          "0 */6 * * *",
				"cloud_name":      "AzureCloud",
				"key_vaults":      "vault-1,vault-2",
				"synchronize_all": false,
			},
			want: []string{"scheduler", "configs", "create", "cckm-synchronization",
				"--name", "AzureSync", "--run-at", "0 */6 * * *",
				"--cloud_name", "AzureCloud", "--key_vaults", "vault-1,vault-2",
				"--synchronize_all=false"},
		},
		{
			name: "create ignores options of other job types",
			op:   "configs_create",
			bag: params.Bag{
				"job_type":       "backup",
				"name":           "NightlyBackup",
				"run_at":         "0 2 * * *",
				"key_query_json": `{"labels": {}}`,
			},
			want: []string{"scheduler", "configs", "create", "backup",
				"--name", "NightlyBackup", "--run-at", "0 2 * * *"},
		},
		{
			name: "create password expiry notification",
			op:   "configs_create",
			bag: params.Bag{
				"job_type":          "user-password-expiry-notification",
				"name":              "PasswordReminder",
				"run_at":            "0 8 * * *",
				"notification_days": float64(14),
				"email_template":    "expiry-notice",
			},
			want: []string{"scheduler", "configs", "create", "user-password-expiry-notification",
				"--name", "PasswordReminder", "--run-at", "0 8 * * *",
				"--notification-days", "14", "--email-template", "expiry-notice"},
		},
		{
			name: "list configs has no default paging",
			op:   "configs_list",
			bag:  params.Bag{},
			want: []string{"scheduler", "configs", "list"},
		},
		{
			name: "list configs with filters",
			op:   "configs_list",
			bag:  params.Bag{"limit": float64(20), "disabled": false, "operation": "key_rotation"},
			want: []string{"scheduler", "configs", "list", "--limit", "20",
				"--operation", "key_rotation", "--disabled=false"},
		},
		{
			name: "get config",
			op:   "configs_get",
			bag:  params.Bag{"id": "config-id-1"},
			want: []string{"scheduler", "configs", "get", "--id", "config-id-1"},
		},
		{
			name: "modify cckm sync uses dashed synchronize-all",
			op:   "configs_modify",
			bag: params.Bag{
				"id":              "config-id-1",
				"job_type":        "cckm-synchronization",
				"synchronize_all": true,
			},
			want: []string{"scheduler", "configs", "modify", "cckm-synchronization",
				"--id", "config-id-1", "--synchronize-all"},
		},
		{
			name: "run config now",
			op:   "configs_run_now",
			bag:  params.Bag{"id": "config-id-1"},
			want: []string{"scheduler", "configs", "run-now", "--id", "config-id-1"},
		},
		{
			name: "list jobs with status filter",
			op:   "jobs_list",
			bag:  params.Bag{"job_status": "failed", "job_config_id": "config-id-1"},
			want: []string{"scheduler", "jobs", "list", "--job-config-id", "config-id-1",
				"--job-status", "failed"},
		},
		{
			name: "delete job run",
			op:   "jobs_delete",
			bag:  params.Bag{"id": "job-run-id-1"},
			want: []string{"scheduler", "jobs", "delete", "--id", "job-run-id-1"},
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
