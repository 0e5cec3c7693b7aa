package docstring

import (
	"strings"

	"github.com/corey/doccheck/internal/domain/syntax"
)

// Config selects which rules run. The zero value runs the always-on
// presence and ending rules only.
type Config struct {
	ExtraChecks bool
	Disabled    map[string]bool // rule ID -> skip
}

// Enabled reports whether rule runs under this configuration.
func (c Config) Enabled(rule string) bool {
	def, ok := LookupRule(rule)
	if !ok || c.Disabled[rule] {
		return false
	}
	return !def.Extra || c.ExtraChecks
}

// CheckModule checks every documentable node of m and reports violations
// to rep under displayName. It returns true when nothing was reported.
// Every rule is evaluated for every node; a failure never hides another.
func CheckModule(cfg Config, rep *Reporter, displayName string, m *syntax.Module) bool {
	c := checker{cfg: cfg, rep: rep, file: displayName}
	ok := true
	for n := range Documentables(displayName, m) {
		ok = c.node(n) && ok
	}
	return ok
}

type checker struct {
	cfg  Config
	rep  *Reporter
	file string
}

func (c checker) report(rule string, n Node, args ...any) bool {
	return c.rep.Report(c.file, rule, n, args...)
}

func (c checker) node(n Node) bool {
	if n.Docstring == nil {
		if c.cfg.Enabled(RuleMissing) {
			return c.report(RuleMissing, n)
		}
		return true
	}
	doc := *n.Docstring

	ok := true
	if c.cfg.Enabled(RuleBadEnding) && hasBadEnding(doc) {
		ok = c.report(RuleBadEnding, n) && ok
	}
	if c.cfg.ExtraChecks {
		ok = c.directives(n, doc) && ok
	}
	return ok
}

// directives runs the extra checks on a node that has a docstring.
func (c checker) directives(n Node, doc string) bool {
	ok := true

	if c.cfg.Enabled(RuleParamType) {
		for _, name := range ParamNames(doc) {
			if !HasTypeLine(doc, name) {
				ok = c.report(RuleParamType, n, name) && ok
			}
		}
	}
	if c.cfg.Enabled(RuleIvarType) {
		for _, name := range IvarNames(doc) {
			if !HasVartypeLine(doc, name) {
				ok = c.report(RuleIvarType, n, name) && ok
			}
		}
	}

	hasReturns := strings.Contains(doc, returnsMarker)
	if IsOrdinaryFunction(n) {
		if c.cfg.Enabled(RuleParamCoverage) {
			for _, name := range n.Params {
				if excludedParam(name) {
					continue
				}
				if !HasParamDoc(doc, name) {
					ok = c.report(RuleParamCoverage, n, name) && ok
				}
			}
		}
		if c.cfg.Enabled(RuleReturns) && !hasReturns && ReturnsValue(n) {
			ok = c.report(RuleReturns, n) && ok
		}
		if c.cfg.Enabled(RuleYields) && !hasReturns && YieldsValue(n) {
			ok = c.report(RuleYields, n) && ok
		}
	}

	if c.cfg.Enabled(RuleRtype) && hasReturns && !strings.Contains(doc, rtypeMarker) {
		ok = c.report(RuleRtype, n) && ok
	}
	if c.cfg.Enabled(RuleRaisesBare) && strings.Contains(doc, bareRaiseMarker) {
		ok = c.report(RuleRaisesBare, n) && ok
	}
	if c.cfg.Enabled(RulePropertyType) && IsPropertyLike(n) && !strings.Contains(doc, typeMarker) {
		ok = c.report(RulePropertyType, n) && ok
	}
	return ok
}
