package docstring

import (
	"fmt"
	"io"
	"sync"
)

// Diagnostic is one reported violation.
type Diagnostic struct {
	File    string
	Rule    string
	Message string
	Name    string
	Line    int
}

// String formats d as "<file>: <message>: <name> (<line>)".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%d)", d.File, d.Message, d.Name, d.Line)
}

// Reporter writes one line per diagnostic and keeps them for inspection.
// It is safe for concurrent use, though a Reporter is normally owned by the
// check of a single module.
type Reporter struct {
	mu    sync.Mutex
	w     io.Writer
	diags []Diagnostic
}

// NewReporter returns a Reporter writing to w. A nil w only records.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report records a violation of rule by n in file and always returns false,
// so call sites can fold it into a running verdict:
//
//	ok = rep.Report(file, RuleMissing, n) && ok
func (r *Reporter) Report(file, rule string, n Node, args ...any) bool {
	msg := rule
	if def, ok := LookupRule(rule); ok {
		msg = def.Message
		if len(args) > 0 {
			msg = fmt.Sprintf(def.Message, args...)
		}
	}
	d := Diagnostic{File: file, Rule: rule, Message: msg, Name: n.Name, Line: n.Line}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, d)
	if r.w != nil {
		fmt.Fprintln(r.w, d.String())
	}
	return false
}

// Diagnostics returns everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}
