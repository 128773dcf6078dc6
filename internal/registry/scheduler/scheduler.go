// Package scheduler implements the scheduler_management grouped tool:
// CipherTrust Manager scheduler configurations and the job runs they
// produce.
package scheduler

import (
	"context"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/ksctl"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/params"
	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/registry"
)

// Description is the scheduler_management tool description advertised to
// MCP clients.
const Description = "Comprehensive scheduler management for CipherTrust Manager. " +
	"Supports creating, listing, getting, deleting, and modifying scheduler configurations, " +
	"as well as managing scheduler job runs. Configurations can run key rotation, " +
	"CCKM synchronization (AWS, Azure, Google, OCI, Salesforce, SAP, HSM, DSM), database backup, " +
	"SCP backup, user password expiry notifications, and more. Scheduling uses cron expressions " +
	"(e.g. '0 9 * * *' for daily at 9 AM), with optional start/end dates and a target cluster node."

// Scheduler is the single operation family behind scheduler_management.
type Scheduler struct {
	registry.Base
}

// New builds the scheduler_management facade.
func New(inv ksctl.Invoker) (*dispatch.Facade, error) {
	reg, err := NewRegistry(inv)
	if err != nil {
		return nil, err
	}
	return dispatch.New("scheduler_management", Description, reg)
}

func NewRegistry(inv ksctl.Invoker) (*dispatch.Table, error) {
	r := &Scheduler{registry.Base{Invoker: inv}}
	return dispatch.NewTable("scheduler",
		schedulerProps,
		schedulerRequirements,
		map[string]dispatch.HandlerFunc{
			"configs_create":  r.createConfig,
			"configs_list":    r.listConfigs,
			"configs_get":     r.getConfig,
			"configs_delete":  r.deleteConfig,
			"configs_modify":  r.modifyConfig,
			"configs_run_now": r.runConfigNow,
			"jobs_list":       r.listJobs,
			"jobs_get":        r.getJob,
			"jobs_delete":     r.deleteJob,
		},
	)
}

var schedulerProps = map[string]dispatch.Property{
	"domain":      {Type: "string", Description: "Domain to operate in (defaults to the configured domain)"},
	"auth_domain": {Type: "string", Description: "Authentication domain of the acting user"},

	"job_type":    {Type: "string", Description: "Type of scheduler job (key-rotation, cckm-synchronization, backup, cckm-key-rotation, cckm-xks-credential-rotation, sync-crl, user-password-expiry-notification, cckm-add-containers, cckm-key-backup)"},
	"name":        {Type: "string", Description: "Name of the scheduler configuration"},
	"run_at":      {Type: "string", Description: "Cron expression for when the job should run (e.g. '0 9 * * *')"},
	"description": {Type: "string", Description: "Description of the scheduler configuration"},
	"disabled":    {Type: "boolean", Description: "Whether the job is disabled"},
	"start_date":  {Type: "string", Description: "Date and time when the configuration is activated"},
	"end_date":    {Type: "string", Description: "Date and time when the configuration is deactivated"},
	"run_on":      {Type: "string", Description: "Cluster node ID or IP address on which to run the job"},

	// Key rotation jobs.
	"key_query_json":          {Type: "string", Description: "JSON query selecting the keys to rotate"},
	"key_query_file":          {Type: "string", Description: "Path to a file containing the key query JSON"},
	"metadata_json":           {Type: "string", Description: "JSON metadata for replaced keys"},
	"metadata_file":           {Type: "string", Description: "Path to a file containing replaced-key metadata JSON"},
	"deactivate_replaced_key": {Type: "integer", Description: "Seconds after which a replaced key is deactivated"},
	"replaced_key_state":      {Type: "string", Description: "State to set for a replaced key (Deactivated or ProtectStop)"},
	"change_state_after_time": {Type: "integer", Description: "Seconds after which a replaced key changes state"},
	"offset":                  {Type: "integer", Description: "Offset in seconds for replacement key activation"},

	// CCKM synchronization jobs.
	"cloud_name":            {Type: "string", Description: "Cloud provider (aws, hsm-luna, dsm, oci, sfdc, gcp, sap, AzureCloud)"},
	"kms":                   {Type: "string", Description: "KMS resource IDs or names for AWS synchronization"},
	"key_vaults":            {Type: "string", Description: "Vault IDs or names for Azure synchronization"},
	"key_rings":             {Type: "string", Description: "Key ring IDs or names for Google synchronization"},
	"oci_vaults":            {Type: "string", Description: "OCI vault IDs for synchronization"},
	"organizations":         {Type: "string", Description: "Organization IDs for Salesforce synchronization"},
	"domains":               {Type: "string", Description: "Domain IDs for DSM synchronization"},
	"partitions":            {Type: "string", Description: "Partition IDs for HSM synchronization"},
	"groups":                {Type: "string", Description: "Group IDs for SAP synchronization"},
	"sync_item":             {Type: "string", Description: "Items to synchronize for Azure (key, secret, certificate, all)"},
	"synchronize_all":       {Type: "boolean", Description: "Synchronize all keys from all vaults and KMS resources"},
	"take_cloud_key_backup": {Type: "boolean", Description: "Take a cloud key backup during Azure synchronization"},

	// Backup jobs.
	"backup_type":     {Type: "string", Description: "Type of backup (database, scp)"},
	"backup_key":      {Type: "string", Description: "Backup encryption key ID"},
	"backup_location": {Type: "string", Description: "Backup storage location"},

	// Password expiry notification jobs.
	"notification_days": {Type: "integer", Description: "Days before password expiry to send the notification"},
	"email_template":    {Type: "string", Description: "Email template for notifications"},

	// Listing and filtering.
	"limit":           {Type: "integer", Description: "Maximum number of results to return"},
	"skip":            {Type: "integer", Description: "Number of results to skip"},
	"id":              {Type: "string", Description: "ID of the configuration or job run"},
	"operation":       {Type: "string", Description: "Operation type filter"},
	"job_config_id":   {Type: "string", Description: "Scheduler job config ID"},
	"job_status":      {Type: "string", Description: "Job status filter (scheduled, in_progress, completed, failed, aborted)"},
	"processing_node": {Type: "string", Description: "Cluster node ID where the job ran"},
	"created_after":   {Type: "string", Description: "Filter by creation date (after)"},
	"created_before":  {Type: "string", Description: "Filter by creation date (before)"},
}

var schedulerRequirements = map[string]dispatch.Requirement{
	"configs_create": {
		Required: []string{"job_type", "name", "run_at"},
		Optional: []string{
			"description", "disabled", "start_date", "end_date", "run_on",
			"key_query_json", "key_query_file", "metadata_json", "metadata_file",
			"deactivate_replaced_key", "replaced_key_state", "change_state_after_time", "offset",
			"cloud_name", "kms", "key_vaults", "key_rings", "oci_vaults",
			"organizations", "domains", "partitions", "groups", "sync_item",
			"synchronize_all", "take_cloud_key_backup",
			"backup_type", "backup_key", "backup_location",
			"notification_days", "email_template",
		},
		Example: map[string]any{
			"action":      "configs_create",
			"job_type":    "key-rotation",
			"name":        "WeeklyKeyRotation",
			"run_at":      "0 9 * * 1",
			"description": "Rotate data keys every Monday at 9 AM",
		},
	},
	"configs_list": {
		Required: []string{},
		Optional: []string{"limit", "skip", "id", "name", "operation", "disabled", "created_after", "created_before"},
		Example:  map[string]any{"action": "configs_list", "limit": 20},
	},
	"configs_get": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "configs_get", "id": "config-id-1"},
	},
	"configs_delete": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "configs_delete", "id": "config-id-1"},
	},
	"configs_modify": {
		Required: []string{"id", "job_type"},
		Optional: []string{
			"run_at", "description", "disabled", "start_date", "end_date", "run_on",
			"key_query_json", "metadata_json", "deactivate_replaced_key",
			"cloud_name", "kms", "synchronize_all",
		},
		Example: map[string]any{
			"action":   "configs_modify",
			"id":       "config-id-1",
			"job_type": "key-rotation",
			"run_at":   "0 21 * * *",
		},
	},
	"configs_run_now": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "configs_run_now", "id": "config-id-1"},
	},
	"jobs_list": {
		Required: []string{},
		Optional: []string{
			"limit", "skip", "id", "name", "job_config_id", "job_status",
			"operation", "processing_node", "created_after", "created_before",
		},
		Example: map[string]any{"action": "jobs_list", "job_status": "failed"},
	},
	"jobs_get": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "jobs_get", "id": "job-run-id-1"},
	},
	"jobs_delete": {
		Required: []string{"id"},
		Example:  map[string]any{"action": "jobs_delete", "id": "job-run-id-1"},
	},
}

// ---------------------------------------------------------------------------
// Configurations
// ---------------------------------------------------------------------------

// createConfig builds the create vector. The job type is a positional
// argument and decides which option block applies; options for other job
// types are ignored. The cckm flags use underscores because that is how
// ksctl spells them.
func (r *Scheduler) createConfig(ctx context.Context, p params.Bag) (any, error) {
	jobType := p.Get("job_type")
	args := []string{"scheduler", "configs", "create", jobType,
		"--name", p.Get("name"),
		"--run-at", p.Get("run_at"),
	}
	args = ksctl.Opt(args, p, "description", "description")
	args = ksctl.TriAssign(args, p, "disabled", "disabled")
	args = ksctl.Opt(args, p, "start_date", "start-date")
	args = ksctl.Opt(args, p, "end_date", "end-date")
	args = ksctl.Opt(args, p, "run_on", "run-on")

	switch jobType {
	case "key-rotation":
		args = ksctl.Opt(args, p, "key_query_json", "key-query-json")
		args = ksctl.Opt(args, p, "key_query_file", "key-query-file")
		args = ksctl.Opt(args, p, "metadata_json", "metadata-json")
		args = ksctl.Opt(args, p, "metadata_file", "metadata-file")
		args = ksctl.Set(args, p, "deactivate_replaced_key", "deactivate-replaced-key")
		args = ksctl.Opt(args, p, "replaced_key_state", "replaced-key-state")
		args = ksctl.Set(args, p, "change_state_after_time", "change-state-after-time")
		args = ksctl.Set(args, p, "offset", "offset")
	case "cckm-synchronization":
		args = ksctl.Opt(args, p, "cloud_name", "cloud_name")
		args = ksctl.Opt(args, p, "kms", "kms")
		args = ksctl.Opt(args, p, "key_vaults", "key_vaults")
		args = ksctl.Opt(args, p, "key_rings", "key_rings")
		args = ksctl.Opt(args, p, "oci_vaults", "oci_vaults")
		args = ksctl.Opt(args, p, "organizations", "organizations")
		args = ksctl.Opt(args, p, "domains", "domains")
		args = ksctl.Opt(args, p, "partitions", "partitions")
		args = ksctl.Opt(args, p, "groups", "groups")
		args = ksctl.Opt(args, p, "sync_item", "sync_item")
		args = ksctl.TriAssign(args, p, "synchronize_all", "synchronize_all")
		args = ksctl.TriAssign(args, p, "take_cloud_key_backup", "take-cloud-key-backup")
	case "backup":
		args = ksctl.Opt(args, p, "backup_type", "backup-type")
		args = ksctl.Opt(args, p, "backup_key", "backup-key")
		args = ksctl.Opt(args, p, "backup_location", "backup-location")
	case "user-password-expiry-notification":
		args = ksctl.Set(args, p, "notification_days", "notification-days")
		args = ksctl.Opt(args, p, "email_template", "email-template")
	}

	return r.Run(ctx, p, args)
}

func (r *Scheduler) listConfigs(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"scheduler", "configs", "list"}
	args = ksctl.Set(args, p, "limit", "limit")
	args = ksctl.Set(args, p, "skip", "skip")
	args = ksctl.Opt(args, p, "id", "id")
	args = ksctl.Opt(args, p, "name", "name")
	args = ksctl.Opt(args, p, "operation", "operation")
	args = ksctl.TriAssign(args, p, "disabled", "disabled")
	args = ksctl.Opt(args, p, "created_after", "created-after")
	args = ksctl.Opt(args, p, "created_before", "created-before")
	return r.Run(ctx, p, args)
}

func (r *Scheduler) getConfig(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"scheduler", "configs", "get", "--id", p.Get("id")})
}

func (r *Scheduler) deleteConfig(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"scheduler", "configs", "delete", "--id", p.Get("id")})
}

// modifyConfig mirrors createConfig for the fields ksctl allows changing.
// Note modify spells --synchronize-all with dashes while create uses
// --synchronize_all; ksctl is inconsistent here and both spellings are
// deliberate.
func (r *Scheduler) modifyConfig(ctx context.Context, p params.Bag) (any, error) {
	jobType := p.Get("job_type")
	args := []string{"scheduler", "configs", "modify", jobType, "--id", p.Get("id")}
	args = ksctl.Opt(args, p, "run_at", "run-at")
	args = ksctl.Opt(args, p, "description", "description")
	args = ksctl.TriAssign(args, p, "disabled", "disabled")
	args = ksctl.Opt(args, p, "start_date", "start-date")
	args = ksctl.Opt(args, p, "end_date", "end-date")
	args = ksctl.Opt(args, p, "run_on", "run-on")

	switch jobType {
	case "key-rotation":
		args = ksctl.Opt(args, p, "key_query_json", "key-query-json")
		args = ksctl.Opt(args, p, "metadata_json", "metadata-json")
		args = ksctl.Set(args, p, "deactivate_replaced_key", "deactivate-replaced-key")
	case "cckm-synchronization":
		args = ksctl.Opt(args, p, "cloud_name", "cloud_name")
		args = ksctl.Opt(args, p, "kms", "kms")
		args = ksctl.TriAssign(args, p, "synchronize_all", "synchronize-all")
	}

	return r.Run(ctx, p, args)
}

func (r *Scheduler) runConfigNow(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"scheduler", "configs", "run-now", "--id", p.Get("id")})
}

// ---------------------------------------------------------------------------
// Job runs
// ---------------------------------------------------------------------------

func (r *Scheduler) listJobs(ctx context.Context, p params.Bag) (any, error) {
	args := []string{"scheduler", "jobs", "list"}
	args = ksctl.Set(args, p, "limit", "limit")
	args = ksctl.Set(args, p, "skip", "skip")
	args = ksctl.Opt(args, p, "id", "id")
	args = ksctl.Opt(args, p, "name", "name")
	args = ksctl.Opt(args, p, "job_config_id", "job-config-id")
	args = ksctl.Opt(args, p, "job_status", "job-status")
	args = ksctl.Opt(args, p, "operation", "operation")
	args = ksctl.Opt(args, p, "processing_node", "processing-node")
	args = ksctl.Opt(args, p, "created_after", "created-after")
	args = ksctl.Opt(args, p, "created_before", "created-before")
	return r.Run(ctx, p, args)
}

func (r *Scheduler) getJob(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"scheduler", "jobs", "get", "--id", p.Get("id")})
}

func (r *Scheduler) deleteJob(ctx context.Context, p params.Bag) (any, error) {
	return r.Run(ctx, p, []string{"scheduler", "jobs", "delete", "--id", p.Get("id")})
}
