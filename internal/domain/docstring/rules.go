package docstring

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rule IDs.
const (
	RuleMissing       = "missing-docstring"
	RuleBadEnding     = "bad-ending"
	RuleParamType     = "param-type"
	RuleIvarType      = "ivar-type"
	RuleParamCoverage = "param-coverage"
	RuleReturns       = "returns-missing"
	RuleYields        = "yields-missing"
	RuleRtype         = "rtype-missing"
	RuleRaisesBare    = "raises-bare"
	RulePropertyType  = "property-type"
)

var ruleIDs = []string{
	RuleMissing, RuleBadEnding, RuleParamType, RuleIvarType, RuleParamCoverage,
	RuleReturns, RuleYields, RuleRtype, RuleRaisesBare, RulePropertyType,
}

// Rule describes one check. Message is a fmt format; rules about a named
// directive take the name as their only argument.
type Rule struct {
	ID          string `yaml:"id"`
	Message     string `yaml:"message"`
	Extra       bool   `yaml:"extra"` // only evaluated when extra checks are enabled
	Description string `yaml:"description"`
}

//go:embed rules.yaml
var rulesYAML []byte

var rules = mustLoadRules(rulesYAML)

var rulesByID = func() map[string]Rule {
	m := make(map[string]Rule, len(rules))
	for _, r := range rules {
		m[r.ID] = r
	}
	return m
}()

// loadRules parses a rule catalogue. Every rule ID constant must appear
// exactly once, with a message.
func loadRules(data []byte) ([]Rule, error) {
	var loaded []Rule
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse rule catalogue: %w", err)
	}

	known := make(map[string]bool, len(ruleIDs))
	for _, id := range ruleIDs {
		known[id] = true
	}
	seen := make(map[string]bool, len(loaded))
	for _, r := range loaded {
		switch {
		case !known[r.ID]:
			return nil, fmt.Errorf("rule %q: unknown id", r.ID)
		case seen[r.ID]:
			return nil, fmt.Errorf("rule %q: duplicate id", r.ID)
		case r.Message == "":
			return nil, fmt.Errorf("rule %q: missing message", r.ID)
		}
		seen[r.ID] = true
	}
	for _, id := range ruleIDs {
		if !seen[id] {
			return nil, fmt.Errorf("rule %q: not in catalogue", id)
		}
	}
	return loaded, nil
}

func mustLoadRules(data []byte) []Rule {
	r, err := loadRules(data)
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns the rule catalogue in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// LookupRule returns the rule with the given ID.
func LookupRule(id string) (Rule, bool) {
	r, ok := rulesByID[id]
	return r, ok
}

// IsRuleID reports whether id names a known rule.
func IsRuleID(id string) bool {
	_, ok := rulesByID[id]
	return ok
}
