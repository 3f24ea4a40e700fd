// Package iam provides the IAM audit rule pack.
// It groups all IAM rules into a single New() function that the CLI wires
// into a DefaultRuleRegistry before invoking the audit engine.
//
// Convention: every rule pack lives in internal/rulepacks/<domain>/pack.go
// and exposes a single New() func returning []rules.Rule.
// Future IAM rules should be added to the slice returned by New().
package iam

import "github.com/ranas-mukminov/cloud-iam-optimizer/internal/rules"

// New returns the default IAM audit rule pack.
func New() []rules.Rule {
	return []rules.Rule{
		rules.PrivilegeEscalationRule{}, // CRITICAL: wildcard admin access in effective policy set
		rules.MFADisabledRule{},         // HIGH/MEDIUM: user has no MFA device
		rules.StaleAccessKeyRule{},      // HIGH/MEDIUM: active access key past rotation age
		rules.AdminPolicyAttachedRule{}, // MEDIUM: AdministratorAccess policy attached
		rules.ExcessivePrivilegeRule{},  // LOW: effective policy fan-out over threshold
	}
}
