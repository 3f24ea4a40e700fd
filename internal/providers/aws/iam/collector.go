// Package awsiam implements the AWS IAM snapshot collector.
// It walks users, groups, access keys, MFA devices, and attached policy
// documents through the IAM API and normalises them into a models.Snapshot
// for the rule engine.
//
// Implementations must never apply business logic or produce findings.
// Per-user attribute failures (e.g. one user's MFA listing denied) are
// tolerated with conservative defaults so the rest of the audit can
// complete; failures of the top-level listings are fatal.
package awsiam

// CollectOptions configures a snapshot collection call.
// It is used internally by the IAM collector.
type CollectOptions struct {
	AccountID string
	Profile   string
}
