package policy

import (
	"strings"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// ApplyPolicy filters and rewrites findings according to per-rule policy
// overrides: disabled rules are dropped and severity overrides are applied.
// A nil cfg returns findings unchanged.
func ApplyPolicy(findings []models.Finding, cfg *Config) []models.Finding {
	if cfg == nil {
		return findings
	}

	var result []models.Finding
	for _, f := range findings {
		ruleCfg, hasRule := cfg.Rules[f.RuleID]

		if hasRule && ruleCfg.Enabled != nil && !*ruleCfg.Enabled {
			continue
		}

		if hasRule && ruleCfg.Severity != "" {
			f.Severity = models.Severity(strings.ToUpper(ruleCfg.Severity))
		}

		result = append(result, f)
	}
	return result
}
