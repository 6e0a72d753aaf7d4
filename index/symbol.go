// Package index is the project-wide symbol index: an arena of symbol
// records plus side tables for references and relations, guarded by a
// single-writer/many-reader lock. It answers the seven query families
// every navigation feature (go-to-definition, call hierarchy, type
// hierarchy, rename, find-references, file-move refactoring) consults.
package index

import (
	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/position"
)

// SymbolID is a stable 64-bit identifier, unique across the project for
// the lifetime of the index.
type SymbolID uint64

// InvalidSymbolID is the reserved sentinel meaning "no symbol".
const InvalidSymbolID SymbolID = 0

// Symbol is the core identity record the index stores.
type Symbol struct {
	ID         SymbolID
	Name       string
	Signature  string
	ReturnType string
	Kind       astif.DeclKind
	Modifier   astif.Modifier

	// Location is the canonical declaration range, or the zero range
	// for compiler-synthesized symbols.
	Location position.Range
	URI      string

	// Declaration is a secondary location used when Location sits
	// inside a macro-expansion file; it points at the pre-expansion
	// source. Absent (IsAbsent) when not applicable.
	Declaration position.Range

	// MacroCall points at the invoking call site when this symbol
	// originates from a macro expansion. Absent when not applicable.
	MacroCall position.Position

	// Package is the fully-qualified dotted package this symbol belongs
	// to. Scope extends Package with the symbol's nested-declaration
	// path, mirroring GetFullPkgBySymScope in FileMove.h — stored
	// directly here rather than re-derived from Scope on every query,
	// since a package name is itself dotted and can't be recovered by
	// splitting Scope on its first dot.
	Package string
	// Scope is the dotted path of enclosing scopes, Package-prefixed.
	Scope string

	// FromCjo is true when this symbol was loaded from a compiled
	// package interface rather than parsed source.
	FromCjo bool
}

// IsZeroLocation reports whether s has the sentinel zero location
// (0,0)-(0,0), meaning s is compiler-synthesized and should be filtered
// from user-facing results — except the constructor entry named "init",
// which is allowed a zero location (the anonymous-constructor case).
func (s *Symbol) IsZeroLocation() bool {
	zero := position.Position{Line: 0, Column: 0}
	return s.Location.Start.Equal(zero) && s.Location.End.Equal(zero)
}

// IsAnonymousConstructor reports whether s is the zero-location "init"
// special case that participates despite having a synthetic location.
func (s *Symbol) IsAnonymousConstructor() bool {
	return s.IsZeroLocation() && s.Name == "init"
}

// RefKind classifies an occurrence of a symbol.
type RefKind int

const (
	RefDefinition RefKind = 1 << iota
	RefReference
	RefImport
	RefDeclaration
)

// RefKindMask ORs together the RefKind bits a query should match.
type RefKindMask int

// AllRefKinds matches every reference kind.
const AllRefKinds RefKindMask = RefKindMask(RefDefinition | RefReference | RefImport | RefDeclaration)

// Matches reports whether kind is included in mask.
func (mask RefKindMask) Matches(kind RefKind) bool {
	return RefKindMask(kind)&mask != 0
}

// Ref is a single occurrence of a symbol: its exact token range, the
// file it's anchored in, the symbol ID of its enclosing declaration
// (InvalidSymbolID at top level), and what kind of occurrence it is.
type Ref struct {
	Location  position.Range
	URI       string
	Container SymbolID
	Kind      RefKind
}

// RelationLabel names a directed edge kind between two symbols.
type RelationLabel int

const (
	RelationContainedBy RelationLabel = iota
	RelationOverrides
	RelationExtends
	RelationImplements
)

// Relation is a directed labelled edge from one symbol to another.
type Relation struct {
	From  SymbolID
	To    SymbolID
	Label RelationLabel
}
