package policy

import (
	"testing"

	"github.com/ranas-mukminov/cloud-iam-optimizer/internal/models"
)

func enforcingConfig(severity string) *Config {
	return &Config{Version: 1, Enforcement: EnforcementConfig{FailOnSeverity: severity}}
}

func TestShouldFail(t *testing.T) {
	high := []models.Finding{{RuleID: "R", Severity: models.SeverityHigh}}
	low := []models.Finding{{RuleID: "R", Severity: models.SeverityLow}}

	tests := []struct {
		name     string
		findings []models.Finding
		cfg      *Config
		want     bool
	}{
		{"nil config", high, nil, false},
		{"no threshold", high, enforcingConfig(""), false},
		{"unknown threshold value", high, enforcingConfig("SEVERE"), false},
		{"no findings", nil, enforcingConfig("LOW"), false},
		{"at threshold", high, enforcingConfig("HIGH"), true},
		{"above threshold", high, enforcingConfig("MEDIUM"), true},
		{"below threshold", low, enforcingConfig("HIGH"), false},
		{"lower-case threshold", high, enforcingConfig("high"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldFail(tc.findings, tc.cfg); got != tc.want {
				t.Errorf("ShouldFail = %v; want %v", got, tc.want)
			}
		})
	}
}
