package docstring

import (
	"regexp"
	"strings"
	"unicode"
)

// Field directives are recognized by line-anchored patterns over the raw
// docstring text. The identifier must be followed directly by a colon, so
// typed forms such as ":param int x:" are not picked up here.
var (
	paramRe = regexp.MustCompile(`(?m)^\s*:param\s+([\p{L}\p{N}_]+):`)
	ivarRe  = regexp.MustCompile(`(?m)^\s*:ivar\s+([\p{L}\p{N}_]+):`)
)

const (
	returnsMarker   = ":returns:"
	rtypeMarker     = ":rtype:"
	bareRaiseMarker = ":raises:"
	typeMarker      = ":type:"
)

// ParamNames returns the names of all ":param NAME:" lines in doc order.
func ParamNames(doc string) []string {
	return submatches(paramRe, doc)
}

// IvarNames returns the names of all ":ivar NAME:" lines in doc order.
func IvarNames(doc string) []string {
	return submatches(ivarRe, doc)
}

func submatches(re *regexp.Regexp, doc string) []string {
	var names []string
	for _, m := range re.FindAllStringSubmatch(doc, -1) {
		names = append(names, m[1])
	}
	return names
}

// HasTypeLine reports whether doc has a ":type NAME:" line.
func HasTypeLine(doc, name string) bool {
	return fieldLine("type", name).MatchString(doc)
}

// HasVartypeLine reports whether doc has a ":vartype NAME:" line.
func HasVartypeLine(doc, name string) bool {
	return fieldLine("vartype", name).MatchString(doc)
}

func fieldLine(field, name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*:` + field + `\s+` + regexp.QuoteMeta(name) + `:`)
}

// HasParamDoc reports whether name is documented by a :param directive
// anywhere in doc, including the typed form ":param int name:".
func HasParamDoc(doc, name string) bool {
	re := regexp.MustCompile(`:param(?:\s+[^:\n]*)?\s+` + regexp.QuoteMeta(name) + `:`)
	return re.MatchString(doc)
}

// excludedParam reports whether a parameter is exempt from coverage.
func excludedParam(name string) bool {
	return name == "self" || name == "cls" || strings.HasPrefix(name, "_")
}

// hasBadEnding reports whether a multi-line docstring ends on a line with
// text. The closing quotes are expected on their own line, so the last line
// must be blank. One-line docstrings never have a bad ending.
func hasBadEnding(doc string) bool {
	// The appended space keeps a trailing line break from being swallowed.
	lines := splitLines(doc + " ")
	if len(lines) <= 1 {
		return false
	}
	return strings.TrimFunc(lines[len(lines)-1], isSpace) != ""
}

// splitLines splits s at the same line boundaries as Python's
// str.splitlines. A trailing boundary does not produce an empty last line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '\r':
			lines = append(lines, string(rs[start:i]))
			if i+1 < len(rs) && rs[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, string(rs[start:i]))
			start = i + 1
		}
	}
	if start < len(rs) {
		lines = append(lines, string(rs[start:]))
	}
	return lines
}

// isSpace matches Python's str.isspace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}
