package treesitter

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"
)

// evalString returns the value of a single Python string literal, prefix
// and quotes included in lit. ok is false for bytes, f-strings, t-strings
// and malformed literals.
func evalString(lit string) (value string, ok bool) {
	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return "", false
	}
	prefix := strings.ToLower(lit[:i])
	if strings.ContainsAny(prefix, "bft") {
		return "", false
	}
	body := lit[i:]

	q := 1
	if strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`) {
		q = 3
	}
	if len(body) < 2*q {
		return "", false
	}
	inner := normalizeNewlines(body[q : len(body)-q])

	if strings.Contains(prefix, "r") {
		return inner, true
	}
	return unescape(inner), true
}

// normalizeNewlines turns \r\n and \r into \n, as the Python tokenizer does
// before it reads a literal.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

var simpleEscapes = map[byte]string{
	'\\': "\\",
	'\'': "'",
	'"':  "\"",
	'a':  "\a",
	'b':  "\b",
	'f':  "\f",
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'v':  "\v",
}

// unescape processes backslash escapes the way Python does for a non-raw
// str literal. Unknown or malformed escapes are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			sb.WriteByte(ch)
			continue
		}
		next := s[i+1]
		if rep, ok := simpleEscapes[next]; ok {
			sb.WriteString(rep)
			i++
			continue
		}
		switch {
		case next == '\n':
			// line continuation inside the literal
			i++
		case next >= '0' && next <= '7':
			j := i + 1
			for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i+1:j], 8, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		case next == 'x' || next == 'u' || next == 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[next]
			end := i + 2 + width
			if end > len(s) {
				sb.WriteByte(ch)
				continue
			}
			v, err := strconv.ParseUint(s[i+2:end], 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				sb.WriteByte(ch)
				continue
			}
			sb.WriteRune(rune(v))
			i = end - 1
		case next == 'N' && i+2 < len(s) && s[i+2] == '{':
			end := strings.IndexByte(s[i+3:], '}')
			if end < 0 {
				sb.WriteByte(ch)
				continue
			}
			name := s[i+3 : i+3+end]
			r, ok := lookupRune(name)
			if !ok {
				sb.WriteByte(ch)
				continue
			}
			sb.WriteRune(r)
			i = i + 3 + end
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// runesByName is the reverse of runenames.Name, built on first use of a
// \N{...} escape.
var runesByName = sync.OnceValue(func() map[string]rune {
	m := make(map[string]rune, 1<<16)
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		if _, dup := m[name]; !dup {
			m[name] = r
		}
	}
	return m
})

func lookupRune(name string) (rune, bool) {
	r, ok := runesByName()[strings.ToUpper(name)]
	return r, ok
}
