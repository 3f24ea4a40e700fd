// Package policy holds the operator-tunable audit configuration: rule
// thresholds, per-rule enable/severity overrides, and CI enforcement.
// Every access path treats a nil *Config as "use defaults" so the engine
// and rules never need a loaded policy file to run.
package policy

// Default threshold values. These are policy constants, not per-call
// parameters; a policy file overrides them account-wide.
const (
	// DefaultStaleKeyThresholdDays is the key age at which an active access
	// key is considered stale.
	DefaultStaleKeyThresholdDays = 90

	// DefaultExcessivePolicyCountThreshold is the effective policy count
	// above which a user is flagged for excessive privilege fan-out.
	DefaultExcessivePolicyCountThreshold = 5
)

// DefaultAdminWildcardActions is the action set treated as full
// administrative access. "*" is the only value AWS itself uses for the
// AdministratorAccess managed policy; operators can extend the set for
// provider-specific admin wildcards.
var DefaultAdminWildcardActions = []string{"*"}

// Config is the top-level policy configuration, loaded from a YAML file.
// Unknown keys in the file are ignored, never errors, so newer policy files
// stay loadable by older binaries.
type Config struct {
	Version int `yaml:"version"`

	// StaleKeyThresholdDays overrides DefaultStaleKeyThresholdDays when > 0.
	StaleKeyThresholdDays int `yaml:"stale_key_threshold_days"`

	// ExcessivePolicyCountThreshold overrides
	// DefaultExcessivePolicyCountThreshold when > 0.
	ExcessivePolicyCountThreshold int `yaml:"excessive_policy_count_threshold"`

	// AdminWildcardActions overrides DefaultAdminWildcardActions when
	// non-empty.
	AdminWildcardActions []string `yaml:"admin_wildcard_actions"`

	// Rules holds per-rule overrides keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Enforcement configures CI failure behaviour.
	Enforcement EnforcementConfig `yaml:"enforcement"`
}

// RuleConfig is a per-rule policy override.
type RuleConfig struct {
	// Enabled disables the rule's findings when set to false. Nil means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Severity overrides the rule's default severity when non-empty.
	Severity string `yaml:"severity,omitempty"`

	// Params holds numeric per-rule threshold overrides.
	Params map[string]float64 `yaml:"params,omitempty"`
}

// EnforcementConfig controls when an audit run should exit non-zero for CI use.
type EnforcementConfig struct {
	// FailOnSeverity makes the CLI exit non-zero when any finding has this
	// severity or higher. Empty disables enforcement.
	FailOnSeverity string `yaml:"fail_on_severity,omitempty"`
}

// StaleKeyDays returns the configured stale-key threshold, safe to call on nil.
func (c *Config) StaleKeyDays() int {
	if c == nil || c.StaleKeyThresholdDays <= 0 {
		return DefaultStaleKeyThresholdDays
	}
	return c.StaleKeyThresholdDays
}

// ExcessivePolicyCount returns the configured fan-out threshold, safe on nil.
func (c *Config) ExcessivePolicyCount() int {
	if c == nil || c.ExcessivePolicyCountThreshold <= 0 {
		return DefaultExcessivePolicyCountThreshold
	}
	return c.ExcessivePolicyCountThreshold
}

// AdminActions returns the configured admin wildcard action set, safe on nil.
func (c *Config) AdminActions() []string {
	if c == nil || len(c.AdminWildcardActions) == 0 {
		return DefaultAdminWildcardActions
	}
	return c.AdminWildcardActions
}
