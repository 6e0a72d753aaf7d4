// Package astif defines the interface boundary between this module's
// core (the symbol index, the refactoring planner, and the hierarchy
// assembler) and the language's AST builder, parser, and semantic
// analyzer — all of which are out of scope here. Every component in
// this module is built against these interfaces; none imports a
// concrete parser.
package astif

import "github.com/cangjie-tools/cjls/position"

// DeclKind classifies a declaration the way the symbol index's Symbol
// records do.
type DeclKind int

const (
	KindOther DeclKind = iota
	KindPackage
	KindClass
	KindInterface
	KindStruct
	KindEnum
	KindEnumConstructor
	KindFunction
	KindPrimaryConstructor
	KindVariable
	KindTypeAlias
	KindMacro
	KindLambda
	KindGenericParam
	KindExtend
)

// Modifier is a declaration's visibility.
type Modifier int

const (
	ModifierUndefined Modifier = iota
	ModifierPrivate
	ModifierInternal
	ModifierProtected
	ModifierPublic
)

// File is a single parsed source file, already tokenized and resolved.
type File interface {
	// URI is the file's opaque wire identifier.
	URI() string
	// Package is the fully-qualified dotted package this file declares
	// itself as belonging to (before any in-flight move).
	Package() string
	// PackageRange is the range of the package declaration's dotted
	// name, rewritten in place when the file moves.
	PackageRange() position.Range
	// LastImportLine is the 0-based line of the last import statement,
	// or the line immediately after the package declaration if the
	// file has no imports. New imports are inserted at the start of
	// the following line, mirroring FindLastImportPos.
	LastImportLine() int
	// Imports lists every import statement in the file, in source order.
	Imports() []ImportSpec
	// Decls lists every top-level declaration in the file.
	Decls() []Decl
	// Lines is the file's tokenized content, used for UTF-8/UTF-16
	// column conversion.
	Lines() position.Lines
}

// ImportSpec is a single import statement. A multi-import
// (`pkg.{A, B, C}`) is represented as one ImportSpec per member, sharing
// the same Range (the whole statement's range) but distinct MemberRange
// values locating each member's name within the statement for splitting.
type ImportSpec struct {
	// Package is the fully-qualified package the import draws from.
	Package string
	// Member is the imported symbol's unqualified name, or empty for a
	// whole-package import.
	Member string
	// Alias is the local alias the import binds the member to, or empty.
	Alias string
	// Modifier is the import's own visibility modifier, which determines
	// whether it re-exports the imported symbol to this file's importers.
	Modifier Modifier
	// Range is the full statement's range in the importing file.
	Range position.Range
	// PackageRange is the range of the dotted package-qualifier portion
	// of the import, rewritten in place by a same-shape package change.
	PackageRange position.Range
	// MemberRange is this member's name range within a multi-import
	// statement. For a single-member import it equals Range.
	MemberRange position.Range
	// CommaBefore/CommaAfter locate the separating commas flanking this
	// member inside a multi-import statement, or are absent (IsAbsent)
	// for a single-member import or an end member with no neighbor on
	// that side.
	CommaBefore position.Position
	CommaAfter  position.Position
	// SiblingCount is the total number of members in this import
	// statement (1 for a single-member import).
	SiblingCount int
}

// IsMultiImport reports whether this import is one member of a
// brace-enclosed multi-import statement.
func (i ImportSpec) IsMultiImport() bool {
	return i.SiblingCount > 1
}

// Decl is a single top-level declaration in a File.
type Decl interface {
	// Name is the declaration's unqualified identifier.
	Name() string
	// Kind classifies the declaration.
	Kind() DeclKind
	// Modifier is the declaration's visibility.
	Modifier() Modifier
	// Signature is the printed parameter-and-return list for callables,
	// or empty.
	Signature() string
	// ReturnType is the printed return type, or empty.
	ReturnType() string
	// Location is the canonical declaration range, or the zero range
	// for compiler-synthesized declarations.
	Location() position.Range
	// Scope is the dotted path of enclosing scopes, package-first.
	Scope() string
}

// Package groups the files that currently declare themselves under one
// fully-qualified dotted package name.
type Package interface {
	// Name is the fully-qualified dotted package name.
	Name() string
	// Files lists every file currently in this package.
	Files() []File
	// FromCjo reports whether this package was loaded from a compiled
	// package interface rather than from source.
	FromCjo() bool
}
