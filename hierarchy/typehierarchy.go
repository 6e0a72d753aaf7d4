package hierarchy

import "github.com/cangjie-tools/cjls/index"

// ResolveType renders a starting symbol as the root type-hierarchy
// item. Unlike call hierarchy's Resolve, a zero-location symbol is
// never valid here — type hierarchy has no anonymous-constructor case.
func ResolveType(idx *index.Index, id index.SymbolID) (Item, bool) {
	syms := idx.Lookup([]index.SymbolID{id})
	if len(syms) == 0 || syms[0].IsZeroLocation() {
		return Item{}, false
	}
	return symbolToItem(idx, syms[0]), true
}

// Supertypes returns id's direct extends and implements targets. Type
// hierarchy has no dedicated original-source counterpart; it is
// modeled on call hierarchy's "widen via relation, then render" shape
// since both walk a single-direction edge table keyed by symbol ID.
func Supertypes(idx *index.Index, id index.SymbolID) []Item {
	var rels []index.Relation
	rels = append(rels, idx.Relations(id, index.RelationExtends)...)
	rels = append(rels, idx.Relations(id, index.RelationImplements)...)
	return itemsFromRelations(idx, rels, func(r index.Relation) index.SymbolID { return r.To })
}

// Subtypes returns every symbol that directly extends or implements id.
func Subtypes(idx *index.Index, id index.SymbolID) []Item {
	var rels []index.Relation
	rels = append(rels, idx.RelationsTo(id, index.RelationExtends)...)
	rels = append(rels, idx.RelationsTo(id, index.RelationImplements)...)
	return itemsFromRelations(idx, rels, func(r index.Relation) index.SymbolID { return r.From })
}

func itemsFromRelations(idx *index.Index, rels []index.Relation, pick func(index.Relation) index.SymbolID) []Item {
	seen := make(map[index.SymbolID]bool, len(rels))
	var out []Item
	for _, rel := range rels {
		id := pick(rel)
		if seen[id] {
			continue
		}
		seen[id] = true
		syms := idx.Lookup([]index.SymbolID{id})
		if len(syms) == 0 || syms[0].IsZeroLocation() {
			continue
		}
		out = append(out, symbolToItem(idx, syms[0]))
	}
	return out
}
