// Package cte implements the cte_management grouped tool: CipherTrust
// Transparent Encryption policies, user/process/resource sets, clients,
// client groups, profiles, and CSI storage groups, all driven through the
// ksctl CLI.
package cte

import (
	"fmt"

	"github.com/sanyambassi/ciphertrust-manager-mcp-server/internal/dispatch"
)

// propTable declares every parameter the cte_management tool accepts.
// Families pick the subset they expose, so a name shared across families
// keeps a single schema and the facade merge stays clean.
var propTable = map[string]dispatch.Property{
	// Shared across all families.
	"domain":      {Type: "string", Description: "Domain to operate in (defaults to the configured domain)"},
	"auth_domain": {Type: "string", Description: "Authentication domain of the acting user"},
	"limit":       {Type: "integer", Description: "Maximum number of results to return", Default: 10},
	"skip":        {Type: "integer", Description: "Number of results to skip", Default: 0},
	"description": {Type: "string", Description: "Description text"},
	"search":      {Type: "string", Description: "Filter entries by substring"},
	"sort":        {Type: "string", Description: "Sort order of results"},

	// Policies.
	"cte_policy_name":       {Type: "string", Description: "Name of the CTE policy"},
	"cte_policy_identifier": {Type: "string", Description: "Name, ID, or URI of the CTE policy"},
	"policy_type": {
		Type:        "string",
		Description: "Type of CTE policy",
		Enum:        []string{"Standard", "Cloud_Object_Storage", "LDT", "IDT", "CSI"},
	},
	"never_deny": {Type: "boolean", Description: "Always permit operations in the policy (learn mode)", Default: false},

	"security_rules_json":       {Type: "string", Description: "Security rules JSON (inline)"},
	"security_rules_json_file":  {Type: "string", Description: "Path to a file containing security rules JSON"},
	"key_rules_json":            {Type: "string", Description: "Key rules JSON (inline)"},
	"key_rules_json_file":       {Type: "string", Description: "Path to a file containing key rules JSON"},
	"data_tx_rules_json":        {Type: "string", Description: "Data transformation rules JSON (inline)"},
	"data_tx_rules_json_file":   {Type: "string", Description: "Path to a file containing data transformation rules JSON"},
	"ldt_rules_json":            {Type: "string", Description: "LDT rules JSON (inline)"},
	"ldt_rules_json_file":       {Type: "string", Description: "Path to a file containing LDT rules JSON"},
	"idt_rules_json":            {Type: "string", Description: "IDT rules JSON (inline)"},
	"idt_rules_json_file":       {Type: "string", Description: "Path to a file containing IDT rules JSON"},
	"signature_rules_json":      {Type: "string", Description: "Signature rules JSON (inline)"},
	"signature_rules_json_file": {Type: "string", Description: "Path to a file containing signature rules JSON"},
	"restrict_update_json":      {Type: "string", Description: "Restrict update JSON (inline)"},
	"restrict_update_json_file": {Type: "string", Description: "Path to a file containing restrict update JSON"},

	// Policy rules.
	"effect":                   {Type: "string", Description: "Rule effect: permit, deny, audit, applykey (comma-separated for multiple effects)"},
	"action_type":              {Type: "string", Description: "Action the rule applies to (read, write, all_ops, key_op)"},
	"security_rule_identifier": {Type: "string", Description: "ID of the security rule"},
	"exclude_user_set":         {Type: "boolean", Description: "Match users outside the user set", Default: false},
	"exclude_process_set":      {Type: "boolean", Description: "Match processes outside the process set", Default: false},
	"exclude_resource_set":     {Type: "boolean", Description: "Match resources outside the resource set", Default: false},
	"order_number":             {Type: "integer", Description: "Precedence order of the rule within the policy"},
	"key_identifier":           {Type: "string", Description: "Name, ID, or URI of the key"},
	"key_type":                 {Type: "string", Description: "How key_identifier names the key (name, id, slug, alias, uri)"},
	"key_rule_identifier":      {Type: "string", Description: "ID of the key rule"},
	"current_key_json_file":    {Type: "string", Description: "Path to a file containing current key JSON"},
	"transform_key_json_file":  {Type: "string", Description: "Path to a file containing transformation key JSON"},
	"ldt_rule_identifier":      {Type: "string", Description: "ID of the LDT rule"},
	"is_exclusion_rule":        {Type: "boolean", Description: "Treat the rule as an exclusion rule", Default: false},

	// User sets.
	"user_set_identifier": {Type: "string", Description: "Name, ID, or URI of the user set"},
	"user_set_name":       {Type: "string", Description: "Filter by user set name"},
	"user_json":           {Type: "string", Description: "User set JSON (inline)"},
	"user_json_file":      {Type: "string", Description: "Path to a file containing user set JSON"},
	"user_index":          {Type: "string", Description: "Index of the user entry within the set"},
	"user_index_list":     {Type: "string", Description: "Comma-separated list of user entry indexes"},

	// Process sets.
	"process_set_identifier": {Type: "string", Description: "Name, ID, or URI of the process set"},
	"process_set_name":       {Type: "string", Description: "Filter by process set name"},
	"process_json":           {Type: "string", Description: "Process set JSON (inline)"},
	"process_json_file":      {Type: "string", Description: "Path to a file containing process set JSON"},
	"process_index":          {Type: "string", Description: "Index of the process entry within the set"},
	"process_index_list":     {Type: "string", Description: "Comma-separated list of process entry indexes"},

	// Resource sets.
	"resource_set_identifier": {Type: "string", Description: "Name, ID, or URI of the resource set"},
	"resource_set_name":       {Type: "string", Description: "Filter by resource set name"},
	"resource_json":           {Type: "string", Description: "Resource set JSON (inline)"},
	"resource_json_file":      {Type: "string", Description: "Path to a file containing resource set JSON"},
	"resource_index":          {Type: "string", Description: "Index of the resource entry within the set"},
	"resource_index_list":     {Type: "string", Description: "Comma-separated list of resource entry indexes"},

	// Clients and guard points.
	"cte_client_name":       {Type: "string", Description: "Name of the CTE client"},
	"cte_client_identifier": {Type: "string", Description: "Name, ID, or URI of the CTE client"},
	"client_password":       {Type: "string", Description: "Password for the client (omit to generate one)"},
	"password_creation_method": {
		Type:        "string",
		Description: "How the client password is created",
		Enum:        []string{"GENERATE", "MANUAL"},
		Default:     "GENERATE",
	},
	"comm_enabled": {Type: "boolean", Description: "Enable communication with the client", Default: false},
	"reg_allowed":  {Type: "boolean", Description: "Allow client registration", Default: false},
	"cte_client_type": {
		Type:        "string",
		Description: "Type of CTE client",
		Enum:        []string{"FS", "CSI", "CTE-U"},
	},
	"cte_profile_identifier":  {Type: "string", Description: "Name, ID, or URI of the client profile"},
	"cte_client_locked":       {Type: "boolean", Description: "Lock the client's CTE configuration"},
	"system_locked":           {Type: "boolean", Description: "Lock the client's system directories"},
	"client_mfa_enabled":      {Type: "boolean", Description: "Enable multifactor authentication for the client"},
	"host_name":               {Type: "string", Description: "Hostname to associate with the client"},
	"guard_path_list":         {Type: "string", Description: "Comma-separated list of paths to guard"},
	"guard_point_type":        {Type: "string", Description: "Type of guard point (directory_auto, directory_manual, rawdevice_auto, rawdevice_manual, cloudstorage_auto, cloudstorage_manual)"},
	"guard_point_identifier":  {Type: "string", Description: "ID of the guard point"},
	"guard_enabled":           {Type: "boolean", Description: "Enable guarding on creation", Default: true},
	"auto_mount_enabled":      {Type: "boolean", Description: "Guard automounted file systems", Default: false},
	"cifs_enabled":            {Type: "boolean", Description: "Guard CIFS shares", Default: false},
	"early_access":            {Type: "boolean", Description: "Permit early access before all services start", Default: false},
	"preserve_sparse_regions": {Type: "boolean", Description: "Preserve sparse file regions during transformation", Default: true},
	"mfa_enabled":             {Type: "boolean", Description: "Require multifactor authentication on the guard point", Default: false},
	"intelligent_protection":  {Type: "boolean", Description: "Enable intelligent protection on the guard point", Default: false},
	"is_idt_capable_device":   {Type: "boolean", Description: "Mark the device as IDT capable", Default: false},

	// Client groups.
	"client_group_name":        {Type: "string", Description: "Name of the client group"},
	"client_group_identifier":  {Type: "string", Description: "Name, ID, or URI of the client group"},
	"client_group_description": {Type: "string", Description: "Description of the client group"},
	"client_group_password":    {Type: "string", Description: "Password shared by clients in the group (omit to generate one)"},
	"cluster_type": {
		Type:        "string",
		Description: "Cluster type of the client group",
		Enum:        []string{"NON-CLUSTER", "HDFS"},
		Default:     "NON-CLUSTER",
	},

	// Profiles.
	"cte_profile_name":        {Type: "string", Description: "Name of the CTE profile"},
	"cte_profile_description": {Type: "string", Description: "Description of the CTE profile"},
	"concise_logging":         {Type: "boolean", Description: "Enable concise logging on clients using the profile"},
	"connect_timeout":         {Type: "integer", Description: "Client connect timeout in seconds (5-150)"},
	"metadata_scan_interval":  {Type: "integer", Description: "Interval in seconds between metadata scans"},
	"partial_config_enable":   {Type: "boolean", Description: "Allow clients to run with partial configuration"},
	"server_response_rate":    {Type: "integer", Description: "Percentage of server responses to log (0-100)"},

	// CSI storage groups.
	"storage_group_name":       {Type: "string", Description: "Name of the Kubernetes storage group"},
	"storage_group_identifier": {Type: "string", Description: "Name, ID, or URI of the Kubernetes storage group"},
	"storage_class_name":       {Type: "string", Description: "Name of the Kubernetes storage class"},
	"namespace_name":           {Type: "string", Description: "Name of the Kubernetes namespace"},
	"ctecsi_description":       {Type: "string", Description: "Description of the storage group"},
	"ctecsi_profile":           {Type: "string", Description: "Client profile for the storage group"},
}

// props selects named entries from propTable. A typo panics so a bad
// registry fails at startup rather than serving a broken schema.
func props(names ...string) map[string]dispatch.Property {
	out := make(map[string]dispatch.Property, len(names))
	for _, name := range names {
		prop, ok := propTable[name]
		if !ok {
			panic(fmt.Sprintf("cte: unknown property %q", name))
		}
		out[name] = prop
	}
	return out
}
