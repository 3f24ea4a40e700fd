package rules

import (
	"time"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
)

// RuleContext carries all collected data for a single evaluation run.
// It is the sole input to Rule.Evaluate and must contain everything a rule
// needs; rules must never make network calls or read external state.
type RuleContext struct {
	// Snapshot is the immutable IAM state under evaluation. Never nil when
	// called through the engine; rules must still tolerate nil.
	Snapshot *models.Snapshot

	// Now is the evaluation reference time used for age calculations.
	// The engine pins it to Snapshot.CollectedAt so repeated evaluations of
	// the same Snapshot produce identical findings.
	Now time.Time

	// Policy holds the active policy Config for threshold overrides. May be
	// nil when no policy file is loaded; rules must treat nil as "use defaults".
	Policy *policy.Config
}

// Rule is a single deterministic IAM risk-detection rule.
// Rules must be stateless, free of I/O, and safe to call concurrently;
// the engine runs them in parallel against the same Snapshot.
// An empty result with a nil error means "condition not met", never a failure.
type Rule interface {
	// ID returns the unique, stable identifier for this rule (e.g. "MFA_DISABLED").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the provided context and returns zero or more findings.
	// A non-nil error marks the rule's coverage as degraded for this run;
	// it never aborts the run.
	Evaluate(ctx RuleContext) ([]models.Finding, error)
}

// RuleRegistry manages the set of active rules.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// IDs returns the registered rule IDs in registration order.
	IDs() []string
}
