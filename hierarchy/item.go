// Package hierarchy assembles call-hierarchy and type-hierarchy
// results from the symbol index: given a symbol, it widens across
// override chains before grouping references by their enclosing
// container, and walks extends/implements relations for supertypes and
// subtypes.
package hierarchy

import (
	"strings"

	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/position"
)

// Item is one call-hierarchy or type-hierarchy node: enough to render
// an entry in an editor's hierarchy view and to resolve its incoming or
// outgoing edges on a follow-up request.
type Item struct {
	SymbolID       index.SymbolID
	Name           string
	Detail         string
	URI            string
	Range          position.Range
	SelectionRange position.Range
	// IsKernel marks an item resolved from a compiled package interface
	// rather than a file on disk — callers render it read-only and
	// route a click to a synthetic location instead of an editor tab.
	IsKernel bool
}

// symbolToItem renders sym as a hierarchy item, mirroring
// DeclToCallHierarchyItem's symbol overload: the constructor name
// substitution for signatures beginning "init(", and the zero-location
// "init" range widened to its containing declaration.
func symbolToItem(idx *index.Index, sym *index.Symbol) Item {
	name := sym.Signature + ":" + sym.ReturnType
	const initPrefix = "init("
	if strings.HasPrefix(sym.Signature, initPrefix) {
		name = sym.ReturnType + sym.Signature[len("init"):]
	}

	rng := sym.Location
	if sym.IsAnonymousConstructor() {
		rng = widenAnonymousConstructorRange(idx, sym, rng)
	}

	return Item{
		SymbolID:       sym.ID,
		Name:           name,
		Detail:         detailOf(sym),
		URI:            sym.URI,
		Range:          rng,
		SelectionRange: rng,
		IsKernel:       sym.FromCjo,
	}
}

func detailOf(sym *index.Symbol) string {
	if sym.Package == "" {
		return sym.Scope
	}
	return sym.Package
}

// widenAnonymousConstructorRange resolves a zero-location "init" symbol's
// displayed range to its containing declaration's range, found via the
// CONTAINED_BY relation, per DealAnonymousConstructorRange.
func widenAnonymousConstructorRange(idx *index.Index, sym *index.Symbol, fallback position.Range) position.Range {
	rels := idx.Relations(sym.ID, index.RelationContainedBy)
	if len(rels) == 0 {
		return fallback
	}
	outer := idx.Lookup([]index.SymbolID{rels[0].To})
	if len(outer) == 0 {
		return fallback
	}
	return outer[0].Location
}

// isValidCallSymbol mirrors the C++ filter used before building a call
// hierarchy item from a symbol: a zero-location symbol participates
// only as the anonymous "init" constructor or when it came from a
// compiled package interface (a cjo symbol never carries real source
// coordinates at all).
func isValidCallSymbol(sym *index.Symbol) bool {
	if !sym.IsZeroLocation() {
		return true
	}
	return sym.IsAnonymousConstructor() || sym.FromCjo
}
