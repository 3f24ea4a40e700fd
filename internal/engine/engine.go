package engine

import (
	"context"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// AuditType identifies the category of audit to run.
type AuditType string

const (
	AuditTypeIAM AuditType = "iam"
)

// AuditOptions configures a single audit run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// AuditType selects the audit module. Only AuditTypeIAM exists today.
	AuditType AuditType

	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string

	// Profiles, when non-empty, audits each listed profile and merges the
	// findings into a single report. Takes precedence over Profile.
	Profiles []string
}

// SnapshotCollector acquires the normalized IAM state of one account.
// It owns all provider API mechanics (credentials, pagination, retries);
// the engine never inspects provider-specific request or response shapes.
//
// Collect failures are fatal to the audit: an audit without a trustworthy
// Snapshot is meaningless, so the engine surfaces them instead of retrying.
type SnapshotCollector interface {
	Collect(ctx context.Context, profile string) (*models.Snapshot, error)
}

// Engine is the central orchestration interface.
// It coordinates snapshot collection, rule evaluation, and report assembly,
// returning a fully populated AuditReport.
//
// Engine must not call the AWS SDK directly; it delegates to the
// SnapshotCollector and RuleRegistry.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) (*models.AuditReport, error)
}
