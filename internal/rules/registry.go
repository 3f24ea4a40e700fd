package rules

import "fmt"

// DefaultRuleRegistry is a simple, ordered, in-memory registry.
// Register panics on duplicate rule IDs to catch wiring mistakes at startup.
// Registration order is preserved for reproducible rule listings; the engine
// itself is insensitive to evaluation order.
type DefaultRuleRegistry struct {
	rules []Rule
	index map[string]struct{}
}

// NewDefaultRuleRegistry returns an empty registry ready for rule registration.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{
		index: make(map[string]struct{}),
	}
}

// Register adds rule to the registry. Panics if the same ID is registered twice.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID()))
	}
	r.rules = append(r.rules, rule)
	r.index[rule.ID()] = struct{}{}
}

// All returns all registered rules in registration order.
func (r *DefaultRuleRegistry) All() []Rule {
	return r.rules
}

// IDs returns the registered rule IDs in registration order.
func (r *DefaultRuleRegistry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}
