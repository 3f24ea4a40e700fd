package policy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads and parses the policy file at path. Unknown keys are
// silently ignored by the YAML decoder; only a missing file, malformed YAML,
// or an unsupported version is an error.
func LoadPolicy(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse policy file %q: %w", path, err)
	}

	if cfg.Version != 1 {
		return nil, errors.New("unsupported policy version")
	}

	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}

	return &cfg, nil
}
