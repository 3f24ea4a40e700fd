package rules

import (
	"fmt"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

const privilegeEscalationRuleID = "PRIVILEGE_ESCALATION"

// PrivilegeEscalationRule flags IAM users whose effective policy set —
// directly attached managed policies, inline policies, and every policy
// inherited through group membership — grants an Allow statement with a
// wildcard action on a wildcard resource. The attachment path is recorded
// as evidence for remediation guidance but does not change severity.
//
// Wildcard detection is deliberately separate from name-based detection
// (ADMIN_POLICY_ATTACHED): a policy named "AdministratorAccess" is not
// assumed to grant "*", and a custom policy granting "*" is not assumed to
// carry an admin name.
type PrivilegeEscalationRule struct{}

func (r PrivilegeEscalationRule) ID() string   { return privilegeEscalationRuleID }
func (r PrivilegeEscalationRule) Name() string { return "Full Administrative Access" }

// Evaluate returns one CRITICAL finding per (user, admin-granting policy) pair.
func (r PrivilegeEscalationRule) Evaluate(ctx RuleContext) ([]models.Finding, error) {
	if ctx.Snapshot == nil {
		return nil, nil
	}

	adminActions := ctx.Policy.AdminActions()

	var findings []models.Finding
	for _, name := range ctx.Snapshot.UserNames() {
		u := ctx.Snapshot.Users[name]
		for _, att := range ctx.Snapshot.EffectivePolicies(u) {
			if !att.Policy.HasWildcardAdmin(adminActions) {
				continue
			}

			evidence := map[string]any{
				"policy":          att.Policy.Name,
				"attachment_path": "direct",
			}
			path := "directly attached"
			if !att.Direct() {
				evidence["attachment_path"] = "via group"
				evidence["group"] = att.Group
				path = fmt.Sprintf("inherited via group %q", att.Group)
			}

			findings = append(findings, models.Finding{
				ID:           fmt.Sprintf("%s-%s-%s", r.ID(), u.UserName, att.Policy.Name),
				RuleID:       r.ID(),
				ResourceID:   u.UserName,
				ResourceKind: models.ResourceIAMUser,
				AccountID:    ctx.Snapshot.AccountID,
				Profile:      ctx.Snapshot.Profile,
				Severity:     models.SeverityCritical,
				Explanation: fmt.Sprintf(
					"IAM user %q holds full administrative access through policy %q (%s).",
					u.UserName, att.Policy.Name, path,
				),
				Recommendation: "Replace the wildcard grant with scoped permissions for what the user actually does.",
				Evidence:       evidence,
			})
		}
	}
	return findings, nil
}
