// Package pkgrel classifies the relationship between two fully-qualified
// dotted package names. It is a direct transcription of
// ark::FileRefactor::GetPackageRelation.
package pkgrel

import "strings"

// Relation is the classification of pkg's relationship to targetPkg, as
// returned by [Of].
type Relation int

const (
	// Parent means pkg is an ancestor of targetPkg: pkg is a parent
	// package of targetPkg (e.g. pkg="a.b", targetPkg="a.b.c").
	Parent Relation = iota
	// Child means pkg is a descendant of targetPkg: pkg is a child
	// package of targetPkg (e.g. pkg="a.b.c", targetPkg="a.b").
	Child
	// SamePackage means the two names are identical.
	SamePackage
	// SameModule means the packages differ but share a leading
	// (root) dotted segment.
	SameModule
	// DiffModule means the packages share no common root segment.
	DiffModule
)

func (r Relation) String() string {
	switch r {
	case Child:
		return "child"
	case Parent:
		return "parent"
	case SamePackage:
		return "same-package"
	case SameModule:
		return "same-module"
	case DiffModule:
		return "diff-module"
	default:
		return "unknown"
	}
}

// Of returns pkg's relation to targetPkg: Parent if pkg is an ancestor
// of targetPkg, Child if pkg is a descendant of targetPkg, SamePackage
// if they're equal, and otherwise SameModule or DiffModule depending on
// whether they share a root segment. This mirrors
// ark::FileRefactor::GetPackageRelation(fullPkgName, targetFullPkgName)
// exactly, including its argument order: callers reversing (or not
// reversing) their arguments relative to the original must do so here
// too, per call site.
//
// The ancestor/descendant check requires a dot boundary: "a.b" is an
// ancestor of "a.b.c" but not of "a.bc".
func Of(pkg, targetPkg string) Relation {
	if pkg == targetPkg {
		return SamePackage
	}
	if len(pkg) < len(targetPkg) && strings.HasPrefix(targetPkg, pkg) && targetPkg[len(pkg)] == '.' {
		return Parent
	}
	if len(pkg) > len(targetPkg) && strings.HasPrefix(pkg, targetPkg) && pkg[len(targetPkg)] == '.' {
		return Child
	}
	if Root(pkg) == Root(targetPkg) {
		return SameModule
	}
	return DiffModule
}

// Root returns the leading dotted segment of a fully-qualified package
// name, i.e. its module root.
func Root(pkg string) string {
	if idx := strings.IndexByte(pkg, '.'); idx >= 0 {
		return pkg[:idx]
	}
	return pkg
}

// IsRootPackage reports whether pkg has no dot, i.e. it names a module
// root rather than a nested package.
func IsRootPackage(pkg string) bool {
	return !strings.Contains(pkg, ".")
}
