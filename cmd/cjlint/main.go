// Package main provides the entry point for cjlint, a minimal
// structural-rule runner over the astif interface.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cangjie-tools/cjls/lint"
)

func main() {
	fs := flag.NewFlagSet("cjlint", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cjlint [paths...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs structural lint rules against Cangjie source files.\n")
		fmt.Fprintf(os.Stderr, "Parsing source into the astif.File interface is out of scope\n")
		fmt.Fprintf(os.Stderr, "for this tool; wire a parser's File implementation to lint real input.\n")
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(0)
	}

	// No concrete astif.File implementation is wired here (see the
	// astif package doc comment); a real deployment feeds parsed files
	// from the same parser the language server would use.
	diags := lint.Run(nil, lint.DefaultRules())

	exitCode := 0
	for _, d := range diags {
		fmt.Printf("%s:%d:%d: %s [%s] %s\n",
			d.URI, d.Range.Start.Line+1, d.Range.Start.Column+1,
			d.Severity, d.Code, d.Message)
		if d.Severity == lint.Error {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
