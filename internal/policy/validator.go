package policy

import (
	"fmt"
	"strings"
)

// validSeverities is the set of allowed severity strings (upper-case canonical form).
var validSeverities = map[string]struct{}{
	"CRITICAL": {},
	"HIGH":     {},
	"MEDIUM":   {},
	"LOW":      {},
}

// Validate checks cfg for semantic correctness and returns all validation
// errors found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - threshold overrides must be positive when set
//   - rule IDs must appear in availableRuleIDs
//   - rule severity overrides must be valid severity values if set
//   - enforcement fail_on_severity must be a valid severity value if set
//
// All errors are collected before returning; Validate never stops at the
// first error. Unknown top-level keys are not checked here — the loader
// already ignores them by design.
func Validate(cfg *Config, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	// Zero means "not set"; StaleKeyDays and ExcessivePolicyCount substitute
	// the defaults for it. Only negative values are rejected.
	if cfg.StaleKeyThresholdDays < 0 {
		errs = append(errs, fmt.Errorf("stale_key_threshold_days: must not be negative, got %d", cfg.StaleKeyThresholdDays))
	}
	if cfg.ExcessivePolicyCountThreshold < 0 {
		errs = append(errs, fmt.Errorf("excessive_policy_count_threshold: must not be negative, got %d", cfg.ExcessivePolicyCountThreshold))
	}

	for ruleID, rcfg := range cfg.Rules {
		if _, ok := knownIDs[ruleID]; !ok {
			errs = append(errs, fmt.Errorf("rules.%s: unknown rule ID", ruleID))
		}
		if rcfg.Severity != "" {
			upper := strings.ToUpper(rcfg.Severity)
			if _, ok := validSeverities[upper]; !ok {
				errs = append(errs, fmt.Errorf("rules.%s.severity: invalid value %q; valid values: CRITICAL, HIGH, MEDIUM, LOW", ruleID, rcfg.Severity))
			}
		}
	}

	if fos := cfg.Enforcement.FailOnSeverity; fos != "" {
		upper := strings.ToUpper(fos)
		if _, ok := validSeverities[upper]; !ok {
			errs = append(errs, fmt.Errorf("enforcement.fail_on_severity: invalid value %q; valid values: CRITICAL, HIGH, MEDIUM, LOW", fos))
		}
	}

	return errs
}
