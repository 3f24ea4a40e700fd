package policy

import (
	"strings"
	"testing"
)

var knownRules = []string{"MFA_DISABLED", "STALE_ACCESS_KEY"}

func TestValidate_NilConfig(t *testing.T) {
	errs := Validate(nil, knownRules)
	if len(errs) != 1 {
		t.Errorf("want 1 error for nil config, got %d", len(errs))
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := &Config{
		Version:               1,
		StaleKeyThresholdDays: 30,
		Rules: map[string]RuleConfig{
			"MFA_DISABLED": {Severity: "LOW"},
		},
		Enforcement: EnforcementConfig{FailOnSeverity: "HIGH"},
	}
	if errs := Validate(cfg, knownRules); len(errs) != 0 {
		t.Errorf("valid config rejected: %v", errs)
	}
}

// TestValidate_ZeroThresholdFallsBackToDefault verifies an explicit zero is
// accepted as "not set" and the accessor substitutes the default.
func TestValidate_ZeroThresholdFallsBackToDefault(t *testing.T) {
	cfg := &Config{Version: 1, StaleKeyThresholdDays: 0}
	if errs := Validate(cfg, knownRules); len(errs) != 0 {
		t.Errorf("zero threshold rejected: %v", errs)
	}
	if cfg.StaleKeyDays() != DefaultStaleKeyThresholdDays {
		t.Errorf("zero threshold should yield the default, got %d", cfg.StaleKeyDays())
	}
}

func TestValidate_NegativeThresholdRejected(t *testing.T) {
	cfg := &Config{Version: 1, ExcessivePolicyCountThreshold: -1}
	errs := Validate(cfg, knownRules)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "must not be negative") {
		t.Errorf("negative threshold errors: %v", errs)
	}
}

// TestValidate_CollectsAllErrors verifies validation reports every problem in
// one pass instead of stopping at the first.
func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Version:               2,
		StaleKeyThresholdDays: -5,
		Rules: map[string]RuleConfig{
			"NOT_A_RULE":   {},
			"MFA_DISABLED": {Severity: "SEVERE"},
		},
		Enforcement: EnforcementConfig{FailOnSeverity: "WORST"},
	}

	errs := Validate(cfg, knownRules)
	if len(errs) != 5 {
		t.Fatalf("want 5 errors, got %d: %v", len(errs), errs)
	}

	joined := ""
	for _, e := range errs {
		joined += e.Error() + "\n"
	}
	for _, want := range []string{
		"version",
		"stale_key_threshold_days",
		"NOT_A_RULE",
		"MFA_DISABLED.severity",
		"fail_on_severity",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing error mentioning %q in:\n%s", want, joined)
		}
	}
}
