package policy

import (
	"strings"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

// ShouldFail reports whether any finding has a severity at or above the
// configured fail_on_severity threshold. The CLI uses this to drive a
// non-zero exit code in CI pipelines.
//
// It returns false when:
//   - cfg is nil (no policy loaded)
//   - fail_on_severity is empty or an unrecognised value
//   - findings is empty
func ShouldFail(findings []models.Finding, cfg *Config) bool {
	if cfg == nil || cfg.Enforcement.FailOnSeverity == "" {
		return false
	}
	threshold, ok := models.SeverityRank[models.Severity(strings.ToUpper(cfg.Enforcement.FailOnSeverity))]
	if !ok {
		return false
	}
	for _, f := range findings {
		// Lower rank means higher severity.
		if r, ok := models.SeverityRank[f.Severity]; ok && r <= threshold {
			return true
		}
	}
	return false
}
