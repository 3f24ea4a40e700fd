package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

func TestColorSeverity(t *testing.T) {
	if got := ColorSeverity(models.SeverityCritical, false); got != "CRITICAL" {
		t.Errorf("uncolored: got %q", got)
	}
	colored := ColorSeverity(models.SeverityCritical, true)
	if !strings.Contains(colored, "CRITICAL") || !strings.Contains(colored, ansiBoldRed) {
		t.Errorf("colored CRITICAL missing ANSI wrapping: %q", colored)
	}
	if got := ColorSeverity("BOGUS", true); got != "BOGUS" {
		t.Errorf("unknown severity should pass through: %q", got)
	}
}

func TestShortenMessage(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this is a long message", 10, "this is..."},
		{"tiny max", 1, "t..."},
	}
	for _, tc := range tests {
		if got := ShortenMessage(tc.in, tc.max); got != tc.want {
			t.Errorf("ShortenMessage(%q, %d) = %q; want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, nil, TableOptions{})
	if !strings.Contains(buf.String(), "No findings.") {
		t.Errorf("empty table output: %q", buf.String())
	}
}

func TestRenderTable_Columns(t *testing.T) {
	findings := []models.Finding{{
		RuleID:       "MFA_DISABLED",
		ResourceID:   "alice",
		ResourceKind: models.ResourceIAMUser,
		Profile:      "prod",
		Severity:     models.SeverityHigh,
		Explanation:  "IAM user alice has no MFA device.",
	}}

	var buf bytes.Buffer
	RenderTable(&buf, findings, TableOptions{})
	out := buf.String()

	for _, want := range []string{"RESOURCE ID", "KIND", "SEVERITY", "RULE", "MESSAGE", "alice", "MFA_DISABLED", "HIGH"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "PROFILE") {
		t.Error("PROFILE column rendered without IncludeProfile")
	}
	if strings.Contains(out, "\033[") {
		t.Error("ANSI codes rendered without Colored")
	}
}

func TestRenderTable_ProfileColumn(t *testing.T) {
	findings := []models.Finding{{
		RuleID:       "STALE_ACCESS_KEY",
		ResourceID:   "bob",
		ResourceKind: models.ResourceIAMUser,
		Profile:      "staging",
		Severity:     models.SeverityMedium,
		Explanation:  "stale key",
	}}

	var buf bytes.Buffer
	RenderTable(&buf, findings, TableOptions{IncludeProfile: true})
	out := buf.String()
	if !strings.Contains(out, "PROFILE") || !strings.Contains(out, "staging") {
		t.Errorf("profile column missing:\n%s", out)
	}
}

// TestRenderTable_ColoredAlignment verifies the ANSI reset lands before the
// padding so columns after SEVERITY stay aligned.
func TestRenderTable_ColoredAlignment(t *testing.T) {
	findings := []models.Finding{{
		RuleID:       "PRIVILEGE_ESCALATION",
		ResourceID:   "carol",
		ResourceKind: models.ResourceIAMUser,
		Severity:     models.SeverityCritical,
		Explanation:  "wildcard admin",
	}}

	var buf bytes.Buffer
	RenderTable(&buf, findings, TableOptions{Colored: true})
	out := buf.String()
	if !strings.Contains(out, ansiBoldRed+"CRITICAL"+ansiReset) {
		t.Errorf("severity not colored:\n%q", out)
	}
}

func TestTruncateField(t *testing.T) {
	if got := truncateField("short", 10); got != "short" {
		t.Errorf("no-op truncation: %q", got)
	}
	got := truncateField("a-very-long-resource-name", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncated field: %q", got)
	}
}
