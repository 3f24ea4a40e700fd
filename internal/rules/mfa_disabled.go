package rules

import (
	"fmt"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

const mfaDisabledRuleID = "MFA_DISABLED"

// MFADisabledRule flags IAM users that have no MFA device registered.
// Users with at least one active access key are HIGH: stolen programmatic
// credentials are a single-factor compromise. Users with no access keys are
// MEDIUM, since console-only exposure is lower risk than unprotected
// programmatic access.
type MFADisabledRule struct{}

func (r MFADisabledRule) ID() string   { return mfaDisabledRuleID }
func (r MFADisabledRule) Name() string { return "IAM User Without MFA" }

// Evaluate returns one finding per user with MFA disabled.
func (r MFADisabledRule) Evaluate(ctx RuleContext) ([]models.Finding, error) {
	if ctx.Snapshot == nil {
		return nil, nil
	}

	var findings []models.Finding
	for _, name := range ctx.Snapshot.UserNames() {
		u := ctx.Snapshot.Users[name]
		if u.MFAEnabled {
			continue
		}

		activeKeys := u.ActiveKeyCount()
		severity := models.SeverityMedium
		explanation := fmt.Sprintf("IAM user %q has no MFA device registered.", u.UserName)
		if activeKeys > 0 {
			severity = models.SeverityHigh
			explanation = fmt.Sprintf(
				"IAM user %q has %d active access key(s) but no MFA device registered.",
				u.UserName, activeKeys,
			)
		}

		findings = append(findings, models.Finding{
			ID:             fmt.Sprintf("%s-%s", r.ID(), u.UserName),
			RuleID:         r.ID(),
			ResourceID:     u.UserName,
			ResourceKind:   models.ResourceIAMUser,
			AccountID:      ctx.Snapshot.AccountID,
			Profile:        ctx.Snapshot.Profile,
			Severity:       severity,
			Explanation:    explanation,
			Recommendation: "Enable MFA for all IAM users; prioritise users with programmatic access.",
			Evidence: map[string]any{
				"active_access_keys": activeKeys,
			},
		})
	}
	return findings, nil
}
