package rules

import (
	"fmt"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

const adminPolicyAttachedRuleID = "ADMIN_POLICY_ATTACHED"

// adminPolicyName is the AWS managed policy name conventionally used for
// full account administration. Matching is by exact name only; whether the
// policy actually grants "*" is the PrivilegeEscalationRule's concern.
const adminPolicyName = "AdministratorAccess"

// AdminPolicyAttachedRule flags IAM users whose effective policy set contains
// a policy literally named "AdministratorAccess", directly or via a group.
// It is a name-based signal complementing wildcard detection.
type AdminPolicyAttachedRule struct{}

func (r AdminPolicyAttachedRule) ID() string   { return adminPolicyAttachedRuleID }
func (r AdminPolicyAttachedRule) Name() string { return "AdministratorAccess Policy Attached" }

// Evaluate returns one MEDIUM finding per user carrying the admin-named policy.
func (r AdminPolicyAttachedRule) Evaluate(ctx RuleContext) ([]models.Finding, error) {
	if ctx.Snapshot == nil {
		return nil, nil
	}

	var findings []models.Finding
	for _, name := range ctx.Snapshot.UserNames() {
		u := ctx.Snapshot.Users[name]
		for _, att := range ctx.Snapshot.EffectivePolicies(u) {
			if att.Policy.Name != adminPolicyName {
				continue
			}

			evidence := map[string]any{
				"policy":          att.Policy.Name,
				"attachment_path": "direct",
			}
			if !att.Direct() {
				evidence["attachment_path"] = "via group"
				evidence["group"] = att.Group
			}

			findings = append(findings, models.Finding{
				ID:           fmt.Sprintf("%s-%s", r.ID(), u.UserName),
				RuleID:       r.ID(),
				ResourceID:   u.UserName,
				ResourceKind: models.ResourceIAMUser,
				AccountID:    ctx.Snapshot.AccountID,
				Profile:      ctx.Snapshot.Profile,
				Severity:     models.SeverityMedium,
				Explanation: fmt.Sprintf(
					"IAM user %q has the %s policy attached.", u.UserName, adminPolicyName,
				),
				Recommendation: "Review whether full admin access is necessary; consider scoping permissions down.",
				Evidence:       evidence,
			})
			break // one finding per user is enough for a name-based signal
		}
	}
	return findings, nil
}
