package docstring

import (
	"strings"

	"github.com/corey/doccheck/internal/domain/syntax"
)

// propertyDecorators are the bare decorator names that turn a function into
// an attribute-like accessor. Attribute forms (@functools.cached_property)
// and aliases are not recognized.
var propertyDecorators = map[string]bool{
	"property":        true,
	"cached_property": true,
}

// IsInternal reports whether n is a function whose name starts with an
// underscore (private helpers and dunder methods).
func IsInternal(n Node) bool {
	return n.IsFunction() && strings.HasPrefix(n.Name, "_")
}

// IsPropertyLike reports whether n is a function decorated with a bare
// @property or @cached_property.
func IsPropertyLike(n Node) bool {
	if !n.IsFunction() {
		return false
	}
	for _, d := range n.Decorators {
		if d.Kind == syntax.DecoratorName && propertyDecorators[d.Name] {
			return true
		}
	}
	return false
}

// IsOrdinaryFunction reports whether n is a public, non-property function.
// Only ordinary functions are checked for parameter and return coverage.
func IsOrdinaryFunction(n Node) bool {
	return n.IsFunction() && !IsInternal(n) && !IsPropertyLike(n)
}

// ReturnsValue reports whether the body of function n has a return statement
// with a value, not counting nested functions.
func ReturnsValue(n Node) bool {
	if !n.IsFunction() {
		return false
	}
	return returnScan.body(n.Body)
}

// YieldsValue reports whether the body of function n has a yield or
// yield-from expression statement, not counting nested functions.
func YieldsValue(n Node) bool {
	if !n.IsFunction() {
		return false
	}
	return yieldScan.body(n.Body)
}
