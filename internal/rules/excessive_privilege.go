package rules

import (
	"fmt"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
)

const excessivePrivilegeRuleID = "EXCESSIVE_PRIVILEGE"

// ExcessivePrivilegeRule flags IAM users whose effective policy count exceeds
// the configured fan-out threshold (default 5). This is a heuristic, not a
// least-privilege proof: proving a permission is unneeded requires usage
// telemetry this tool does not collect, so the finding stays LOW.
type ExcessivePrivilegeRule struct{}

func (r ExcessivePrivilegeRule) ID() string   { return excessivePrivilegeRuleID }
func (r ExcessivePrivilegeRule) Name() string { return "Excessive Policy Fan-Out" }

// Evaluate returns one LOW finding per user over the fan-out threshold.
func (r ExcessivePrivilegeRule) Evaluate(ctx RuleContext) ([]models.Finding, error) {
	if ctx.Snapshot == nil {
		return nil, nil
	}

	threshold := int(policy.GetThreshold(
		r.ID(), "policy_count", float64(ctx.Policy.ExcessivePolicyCount()), ctx.Policy,
	))

	var findings []models.Finding
	for _, name := range ctx.Snapshot.UserNames() {
		u := ctx.Snapshot.Users[name]
		count := len(ctx.Snapshot.EffectivePolicies(u))
		if count <= threshold {
			continue
		}

		findings = append(findings, models.Finding{
			ID:           fmt.Sprintf("%s-%s", r.ID(), u.UserName),
			RuleID:       r.ID(),
			ResourceID:   u.UserName,
			ResourceKind: models.ResourceIAMUser,
			AccountID:    ctx.Snapshot.AccountID,
			Profile:      ctx.Snapshot.Profile,
			Severity:     models.SeverityLow,
			Explanation: fmt.Sprintf(
				"IAM user %q has %d effective policies (threshold %d), suggesting accumulated unused permissions.",
				u.UserName, count, threshold,
			),
			Recommendation: "Review the user's attached and group-inherited policies and remove ones no longer needed.",
			Evidence: map[string]any{
				"policy_count": count,
			},
		})
	}
	return findings, nil
}
