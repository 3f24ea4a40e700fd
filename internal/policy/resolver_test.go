package policy

import (
	"testing"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

func sampleFindings() []models.Finding {
	return []models.Finding{
		{ID: "1", RuleID: "MFA_DISABLED", Severity: models.SeverityHigh},
		{ID: "2", RuleID: "STALE_ACCESS_KEY", Severity: models.SeverityMedium},
	}
}

func TestApplyPolicy_NilConfigPassthrough(t *testing.T) {
	in := sampleFindings()
	out := ApplyPolicy(in, nil)
	if len(out) != len(in) {
		t.Errorf("nil config must not filter findings: got %d", len(out))
	}
}

func TestApplyPolicy_DisabledRuleDropped(t *testing.T) {
	off := false
	cfg := &Config{Version: 1, Rules: map[string]RuleConfig{
		"MFA_DISABLED": {Enabled: &off},
	}}

	out := ApplyPolicy(sampleFindings(), cfg)
	if len(out) != 1 || out[0].RuleID != "STALE_ACCESS_KEY" {
		t.Errorf("disabled rule's findings should be dropped: %+v", out)
	}
}

func TestApplyPolicy_SeverityOverride(t *testing.T) {
	cfg := &Config{Version: 1, Rules: map[string]RuleConfig{
		"STALE_ACCESS_KEY": {Severity: "low"},
	}}

	out := ApplyPolicy(sampleFindings(), cfg)
	if len(out) != 2 {
		t.Fatalf("override must not drop findings: got %d", len(out))
	}
	for _, f := range out {
		if f.RuleID == "STALE_ACCESS_KEY" && f.Severity != models.SeverityLow {
			t.Errorf("severity not overridden: got %q", f.Severity)
		}
		if f.RuleID == "MFA_DISABLED" && f.Severity != models.SeverityHigh {
			t.Errorf("unrelated rule's severity changed: got %q", f.Severity)
		}
	}
}

func TestApplyPolicy_ExplicitlyEnabled(t *testing.T) {
	on := true
	cfg := &Config{Version: 1, Rules: map[string]RuleConfig{
		"MFA_DISABLED": {Enabled: &on},
	}}

	out := ApplyPolicy(sampleFindings(), cfg)
	if len(out) != 2 {
		t.Errorf("enabled: true must keep findings: got %d", len(out))
	}
}
