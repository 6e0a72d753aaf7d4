// Package lint runs structural lint rules over the astif interface
// boundary, independent of any concrete parser. It is a minimal runner:
// individual rules are out of scope for this module (the rule catalog
// lives in the original lint tool), but the runner and one illustrative
// rule exist to exercise astif from a second binary.
package lint

import (
	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/position"
)

// Severity classifies a Diagnostic's importance.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single rule violation located in one file.
type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	URI      string
	Range    position.Range
}

// Rule checks one File and reports the violations it finds.
type Rule interface {
	Code() string
	Check(f astif.File) []Diagnostic
}

// Run applies every rule to every file, in file order, and returns the
// combined diagnostics.
func Run(files []astif.File, rules []Rule) []Diagnostic {
	var out []Diagnostic
	for _, f := range files {
		for _, r := range rules {
			out = append(out, r.Check(f)...)
		}
	}
	return out
}

// AvoidWildcardImport flags whole-package imports (`import pkg.*`),
// grounded on the original lint tool's StructuralRuleGPKG01: prefer
// naming the members a file actually uses over importing everything a
// package exports.
type AvoidWildcardImport struct{}

func (AvoidWildcardImport) Code() string { return "G.PKG.01" }

func (AvoidWildcardImport) Check(f astif.File) []Diagnostic {
	var out []Diagnostic
	for _, imp := range f.Imports() {
		if imp.Member != "" {
			continue
		}
		out = append(out, Diagnostic{
			Code:     "G.PKG.01",
			Message:  "avoid wildcard import of package \"" + imp.Package + "\"; name the members used instead",
			Severity: Warning,
			URI:      f.URI(),
			Range:    imp.Range,
		})
	}
	return out
}

// DefaultRules is the built-in rule set cmd/cjlint runs when the caller
// does not select a subset.
func DefaultRules() []Rule {
	return []Rule{AvoidWildcardImport{}}
}
