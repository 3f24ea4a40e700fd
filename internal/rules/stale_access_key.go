package rules

import (
	"fmt"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/policy"
)

const staleAccessKeyRuleID = "STALE_ACCESS_KEY"

// StaleAccessKeyRule flags active access keys older than the configured
// threshold (default 90 days). Keys past twice the threshold are HIGH;
// the rest are MEDIUM. Inactive keys are skipped: they cannot be used and
// flagging them would train operators to ignore the rule.
type StaleAccessKeyRule struct{}

func (r StaleAccessKeyRule) ID() string   { return staleAccessKeyRuleID }
func (r StaleAccessKeyRule) Name() string { return "Stale Active Access Key" }

// Evaluate returns one finding per active key at or past the age threshold.
// Key age is derived from Now so the same Snapshot always ages identically.
func (r StaleAccessKeyRule) Evaluate(ctx RuleContext) ([]models.Finding, error) {
	if ctx.Snapshot == nil {
		return nil, nil
	}

	threshold := int(policy.GetThreshold(
		r.ID(), "max_age_days", float64(ctx.Policy.StaleKeyDays()), ctx.Policy,
	))

	var findings []models.Finding
	for _, name := range ctx.Snapshot.UserNames() {
		u := ctx.Snapshot.Users[name]
		for _, key := range u.AccessKeys {
			if !key.Active() {
				continue
			}
			age := key.AgeDays(ctx.Now)
			if age < threshold {
				continue
			}

			severity := models.SeverityMedium
			if age >= 2*threshold {
				severity = models.SeverityHigh
			}

			findings = append(findings, models.Finding{
				ID:           fmt.Sprintf("%s-%s", r.ID(), key.KeyID),
				RuleID:       r.ID(),
				ResourceID:   u.UserName,
				ResourceKind: models.ResourceIAMUser,
				AccountID:    ctx.Snapshot.AccountID,
				Profile:      ctx.Snapshot.Profile,
				Severity:     severity,
				Explanation: fmt.Sprintf(
					"Access key %s of IAM user %q is %d days old (threshold %d days) and still active.",
					key.KeyID, u.UserName, age, threshold,
				),
				Recommendation: "Rotate the access key and delete the old one once nothing depends on it.",
				Evidence: map[string]any{
					"key_id":   key.KeyID,
					"age_days": age,
				},
			})
		}
	}
	return findings, nil
}
