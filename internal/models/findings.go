package models

import "time"

// Severity represents the impact level of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SeverityRank maps Severity values to sort keys (lower = higher priority).
// Shared by the engine's ordering and the summary renderer.
var SeverityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// ResourceKind identifies the kind of IAM resource a finding refers to.
type ResourceKind string

const (
	ResourceIAMUser   ResourceKind = "IAM_USER"
	ResourceIAMGroup  ResourceKind = "IAM_GROUP"
	ResourceAccessKey ResourceKind = "ACCESS_KEY"
	ResourcePolicy    ResourceKind = "IAM_POLICY"
)

// Finding is a single detected security weakness. It is the atomic output
// unit of the rule engine and is never mutated after creation. Two findings
// with identical (RuleID, ResourceKind, ResourceID, Evidence) are duplicates;
// the engine keeps only one.
type Finding struct {
	ID             string         `json:"id"`
	RuleID         string         `json:"rule_id"`
	ResourceID     string         `json:"resource_id"`
	ResourceKind   ResourceKind   `json:"resource_kind"`
	AccountID      string         `json:"account_id"`
	Profile        string         `json:"profile"`
	Severity       Severity       `json:"severity"`
	Explanation    string         `json:"explanation"`
	Recommendation string         `json:"recommendation"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// AuditSummary aggregates finding counts across all severity levels.
type AuditSummary struct {
	TotalFindings    int `json:"total_findings"`
	CriticalFindings int `json:"critical_findings"`
	HighFindings     int `json:"high_findings"`
	MediumFindings   int `json:"medium_findings"`
	LowFindings      int `json:"low_findings"`
}

// AuditReport is the top-level output of an audit run. It owns its findings
// exclusively; callers render or persist it but never mutate it. Two runs
// over the same Snapshot with the same configuration produce byte-identical
// reports apart from ReportID and GeneratedAt.
type AuditReport struct {
	ReportID    string         `json:"report_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	AuditType   string         `json:"audit_type"`
	Profile     string         `json:"profile"`
	AccountID   string         `json:"account_id"`
	Resources   ResourceCounts `json:"resources"`
	Summary     AuditSummary   `json:"summary"`
	Findings    []Finding      `json:"findings"`
	// Degraded lists the rule IDs whose evaluation failed. Their findings
	// are absent from this report; consumers must treat coverage as reduced.
	Degraded []string `json:"degraded,omitempty"`
}
