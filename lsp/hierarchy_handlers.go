package lsp

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/cangjie-tools/cjls/hierarchy"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/position"
)

// symbolAtPosition finds the symbol a ref in uri covers at pos — a
// best-effort substitute for a dedicated position index: it scans the
// file's refs (which include its own definitions) for the narrowest
// containing range. Returns false if uri is unindexed or pos hits no
// ref, which is a normal resolution failure, not an error.
func (s *Server) symbolAtPosition(uri string, pos position.Position) (index.SymbolID, bool) {
	results := s.index.FileRefs(uri, "", index.AllRefKinds)
	var best index.FileRefResult
	found := false
	for _, fr := range results {
		if !fr.Ref.Location.Contains(pos) {
			continue
		}
		// Prefer the narrowest covering range: a nested ref (e.g. a call
		// argument inside a larger call expression) should win over its
		// enclosing one.
		if !found || best.Ref.Location.ContainsRange(fr.Ref.Location) {
			best = fr
			found = true
		}
	}
	if !found {
		return index.InvalidSymbolID, false
	}
	return best.Symbol, true
}

func toItem(it hierarchy.Item) protocol.CallHierarchyItem {
	detail := it.Detail
	return protocol.CallHierarchyItem{
		Name:           it.Name,
		Kind:           protocol.SymbolKindMethod,
		Detail:         &detail,
		URI:            it.URI,
		Range:          toProtocolRange(it.Range),
		SelectionRange: toProtocolRange(it.SelectionRange),
		Data:           float64(it.SymbolID),
	}
}

func toProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(r.Start.Line), Character: uint32(r.Start.Column)},
		End:   protocol.Position{Line: uint32(r.End.Line), Character: uint32(r.End.Column)},
	}
}

func fromProtocolPosition(p protocol.Position) position.Position {
	return position.New(position.NoFile, int(p.Line), int(p.Character))
}

func (s *Server) prepareCallHierarchy(ctx *glsp.Context, params *protocol.CallHierarchyPrepareParams) ([]protocol.CallHierarchyItem, error) {
	id, ok := s.symbolAtPosition(params.TextDocument.URI, fromProtocolPosition(params.Position))
	if !ok {
		return nil, nil
	}
	item, ok := hierarchy.Resolve(s.index, id)
	if !ok {
		return nil, nil
	}
	return []protocol.CallHierarchyItem{toItem(item)}, nil
}

func (s *Server) incomingCalls(ctx *glsp.Context, params *protocol.CallHierarchyIncomingCallsParams) ([]protocol.CallHierarchyIncomingCall, error) {
	id := index.SymbolID(dataToUint64(params.Item.Data))
	calls := hierarchy.IncomingCalls(s.index, id)
	out := make([]protocol.CallHierarchyIncomingCall, 0, len(calls))
	for _, c := range calls {
		ranges := make([]protocol.Range, len(c.FromRanges))
		for i, r := range c.FromRanges {
			ranges[i] = toProtocolRange(r)
		}
		out = append(out, protocol.CallHierarchyIncomingCall{
			From:       toItem(c.From),
			FromRanges: ranges,
		})
	}
	return out, nil
}

func (s *Server) outgoingCalls(ctx *glsp.Context, params *protocol.CallHierarchyOutgoingCallsParams) ([]protocol.CallHierarchyOutgoingCall, error) {
	id := index.SymbolID(dataToUint64(params.Item.Data))
	calls := hierarchy.OutgoingCalls(s.index, id)
	out := make([]protocol.CallHierarchyOutgoingCall, 0, len(calls))
	for _, c := range calls {
		ranges := make([]protocol.Range, len(c.FromRanges))
		for i, r := range c.FromRanges {
			ranges[i] = toProtocolRange(r)
		}
		out = append(out, protocol.CallHierarchyOutgoingCall{
			To:         toItem(c.To),
			FromRanges: ranges,
		})
	}
	return out, nil
}

func dataToUint64(data any) uint64 {
	switch v := data.(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return uint64(n)
	default:
		return 0
	}
}

// --- type hierarchy: 3.17 surface, exposed as dialect-style custom
// methods since glsp's generated 3.16 Handler has no typed field for
// prepareTypeHierarchy/supertypes/subtypes.

type typeHierarchyItem struct {
	SymbolID       uint64         `json:"symbolId"`
	Name           string         `json:"name"`
	Detail         string         `json:"detail"`
	URI            string         `json:"uri"`
	Range          protocol.Range `json:"range"`
	SelectionRange protocol.Range `json:"selectionRange"`
}

func toTypeHierarchyItem(it hierarchy.Item) typeHierarchyItem {
	return typeHierarchyItem{
		SymbolID:       uint64(it.SymbolID),
		Name:           it.Name,
		Detail:         it.Detail,
		URI:            it.URI,
		Range:          toProtocolRange(it.Range),
		SelectionRange: toProtocolRange(it.SelectionRange),
	}
}

type prepareTypeHierarchyParams struct {
	URI      string            `json:"uri"`
	Position protocol.Position `json:"position"`
}

func (s *Server) prepareTypeHierarchy(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params prepareTypeHierarchyParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	id, ok := s.symbolAtPosition(params.URI, fromProtocolPosition(params.Position))
	if !ok {
		return []typeHierarchyItem{}, nil
	}
	item, ok := hierarchy.ResolveType(s.index, id)
	if !ok {
		return []typeHierarchyItem{}, nil
	}
	return []typeHierarchyItem{toTypeHierarchyItem(item)}, nil
}

type typeHierarchyQueryParams struct {
	Item typeHierarchyItem `json:"item"`
}

func (s *Server) typeHierarchySupertypes(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params typeHierarchyQueryParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	items := hierarchy.Supertypes(s.index, index.SymbolID(params.Item.SymbolID))
	out := make([]typeHierarchyItem, len(items))
	for i, it := range items {
		out[i] = toTypeHierarchyItem(it)
	}
	return out, nil
}

func (s *Server) typeHierarchySubtypes(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params typeHierarchyQueryParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	items := hierarchy.Subtypes(s.index, index.SymbolID(params.Item.SymbolID))
	out := make([]typeHierarchyItem, len(items))
	for i, it := range items {
		out[i] = toTypeHierarchyItem(it)
	}
	return out, nil
}
