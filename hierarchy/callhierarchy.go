package hierarchy

import (
	"sort"
	"strings"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/position"
)

// IncomingCall is one caller of a hierarchy item, with every call-site
// range inside that caller collapsed into a deduplicated, sorted list.
type IncomingCall struct {
	From       Item
	FromRanges []position.Range
}

// OutgoingCall is one callee a hierarchy item invokes.
type OutgoingCall struct {
	To         Item
	FromRanges []position.Range
}

// Resolve renders a starting symbol as the root call-hierarchy item,
// the entry point editors call before asking for incoming or outgoing
// calls on it.
func Resolve(idx *index.Index, id index.SymbolID) (Item, bool) {
	syms := idx.Lookup([]index.SymbolID{id})
	if len(syms) == 0 || !isValidCallSymbol(syms[0]) {
		return Item{}, false
	}
	return symbolToItem(idx, syms[0]), true
}

// IncomingCalls finds every caller of id, widening across its override
// chain first: a call to an overriding or overridden method counts as
// a call to id, per FindFuncDeclCaller.
func IncomingCalls(idx *index.Index, id index.SymbolID) []IncomingCall {
	if id == index.InvalidSymbolID {
		return nil
	}

	widened := idx.FindRiddenUp(id)
	for topID := range widened {
		for descID := range idx.FindRiddenDown(topID) {
			widened[descID] = struct{}{}
		}
	}
	widened[id] = struct{}{}

	ids := make([]index.SymbolID, 0, len(widened))
	for wid := range widened {
		ids = append(ids, wid)
	}

	refs := idx.Refs(ids, index.RefKindMask(index.RefReference))
	byContainer := make(map[index.SymbolID][]index.Ref)
	for _, ref := range refs {
		if ref.Location.Start.IsAbsent() {
			continue
		}
		if ref.Container == id || ref.Container == index.InvalidSymbolID {
			continue
		}
		byContainer[ref.Container] = append(byContainer[ref.Container], ref)
	}

	containerIDs := make([]index.SymbolID, 0, len(byContainer))
	for cid := range byContainer {
		containerIDs = append(containerIDs, cid)
	}
	sort.Slice(containerIDs, func(i, j int) bool { return containerIDs[i] < containerIDs[j] })

	var out []IncomingCall
	for _, cid := range containerIDs {
		syms := idx.Lookup([]index.SymbolID{cid})
		if len(syms) == 0 || !isValidCallSymbol(syms[0]) {
			continue
		}
		out = append(out, IncomingCall{
			From:       symbolToItem(idx, syms[0]),
			FromRanges: dedupSortRanges(byContainer[cid]),
		})
	}
	return out
}

// OutgoingCalls finds every symbol id's declaration body calls,
// restricted to the symbol's own enclosing package, per
// FindOnOutgoingCallsImpl.
func OutgoingCalls(idx *index.Index, id index.SymbolID) []OutgoingCall {
	if id == index.InvalidSymbolID {
		return nil
	}
	syms := idx.Lookup([]index.SymbolID{id})
	if len(syms) == 0 {
		return nil
	}
	decl := syms[0]
	if decl.IsZeroLocation() && decl.Name != "init" && !decl.FromCjo {
		return nil
	}

	callees := idx.Callees(enclosingPackage(decl), id)
	byCallee := make(map[index.SymbolID][]index.Ref)
	for _, c := range callees {
		if c.Ref.Location.Start.IsAbsent() || c.Ref.URI == "" {
			continue
		}
		byCallee[c.Callee] = append(byCallee[c.Callee], c.Ref)
	}

	calleeIDs := make([]index.SymbolID, 0, len(byCallee))
	for cid := range byCallee {
		calleeIDs = append(calleeIDs, cid)
	}
	sort.Slice(calleeIDs, func(i, j int) bool { return calleeIDs[i] < calleeIDs[j] })

	var out []OutgoingCall
	for _, cid := range calleeIDs {
		syms := idx.Lookup([]index.SymbolID{cid})
		if len(syms) == 0 {
			continue
		}
		callee := syms[0]
		if (callee.IsZeroLocation() && callee.Name != "init") || (cid == index.InvalidSymbolID && callee.FromCjo) {
			continue
		}
		if !isCallable(callee) {
			continue
		}

		item := symbolToItem(idx, callee)
		ranges := byCallee[cid]
		// A cjo-sourced callee has no real declaration location; the
		// first call site's range substitutes for the item's own range.
		if callee.FromCjo {
			item.Range = ranges[0].Location
			item.SelectionRange = ranges[0].Location
		}
		out = append(out, OutgoingCall{To: item, FromRanges: dedupSortRanges(ranges)})
	}
	return out
}

func enclosingPackage(sym *index.Symbol) string {
	if sym.Package != "" {
		return sym.Package
	}
	if idx := strings.LastIndexByte(sym.Scope, '.'); idx >= 0 {
		return sym.Scope[:idx]
	}
	return sym.Scope
}

// isCallable restricts outgoing-call targets to symbols that can
// actually be invoked, per the original's FUNC_DECL/PRIMARY_CTOR_DECL/
// LAMBDA_EXPR kind filter.
func isCallable(sym *index.Symbol) bool {
	if sym.Signature == "" {
		return false
	}
	switch sym.Kind {
	case astif.KindFunction, astif.KindPrimaryConstructor, astif.KindLambda:
		return true
	default:
		return false
	}
}

func dedupSortRanges(refs []index.Ref) []position.Range {
	seen := make(map[position.Range]bool, len(refs))
	out := make([]position.Range, 0, len(refs))
	for _, r := range refs {
		if seen[r.Location] {
			continue
		}
		seen[r.Location] = true
		out = append(out, r.Location)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Less(out[j].Start) })
	return out
}
