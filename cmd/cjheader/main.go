// Package main provides cjheader, a CLI that prints the declaration
// signatures a C header exposes to Cangjie's C-interop binding
// generator.
package main

import (
	"fmt"
	"os"

	"github.com/cangjie-tools/cjls/cheader"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: cjheader <header.h>\n")
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range os.Args[1:] {
		if err := printHeader(path); err != nil {
			fmt.Fprintf(os.Stderr, "cjheader: %s: %v\n", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func printHeader(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decls, err := cheader.Scan(src)
	if err != nil {
		return err
	}

	for _, d := range decls {
		fmt.Printf("%s:%d: %s\n", path, d.Line, d.Signature())
	}
	return nil
}
