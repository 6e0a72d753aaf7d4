package lsp

import (
	"encoding/json"
	"log/slog"

	"github.com/tliron/glsp"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/index"
	cjproto "github.com/cangjie-tools/cjls/protocol"
	"github.com/cangjie-tools/cjls/refactor"
)

// fileRefactor computes a file-move refactoring plan and returns it as
// an edits-by-uri batch. Refactor refusals (cross-module moves,
// root-package renames) come back from the planner as an empty batch,
// which this handler passes through unchanged rather than as an error.
func (s *Server) fileRefactor(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	if ctx != nil && ctx.Context != nil {
		if err := checkCancelled(ctx.Context); err != nil {
			return nil, err
		}
	}

	req, err := cjproto.DecodeFileRefactorRequest(raw)
	if err != nil {
		return nil, err
	}

	targetPkg := packageFromDir(s.cfg.ModuleRoot, req.TargetPath)
	batch := s.planner.Plan(refactor.Request{
		SourceFile:      req.File,
		SelectedElement: req.SelectedElement,
		TargetDir:       req.TargetPath,
		TargetPackage:   targetPkg,
	})

	resp := cjproto.FileRefactorResponse{Edits: map[string][]cjproto.TextEdit{}}
	for uri, edits := range batch {
		wire := make([]cjproto.TextEdit, 0, len(edits))
		for _, e := range edits {
			wire = append(wire, cjproto.TextEdit{
				StartLine:      e.Range.Start.Line,
				StartCharacter: e.Range.Start.Column,
				EndLine:        e.Range.End.Line,
				EndCharacter:   e.Range.End.Column,
				NewText:        e.Content,
			})
		}
		resp.Edits[uri] = wire
	}
	return resp, nil
}

// crossLanguageJumpLocation is the navigation target returned for a
// symbol resolved by qualified name rather than by cursor position —
// the shape a foreign-language (e.g. C header) caller needs to jump
// into this project.
type crossLanguageJumpLocation struct {
	URI       string `json:"uri"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

func (s *Server) crossLanguageJump(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	params, err := cjproto.DecodeCrossLanguageJumpParams(raw)
	if err != nil {
		return nil, err
	}

	name := params.Name
	if params.OuterName != nil {
		// A nested member is addressed as Outer.Name in this index's
		// PackageSymbols scan, matching the Scope field's dotted shape.
		name = *params.OuterName + "." + params.Name
	}

	sym, ok := s.findSymbol(params.PackageName, name)
	if !ok || sym.IsZeroLocation() {
		return nil, nil
	}
	return crossLanguageJumpLocation{
		URI:       sym.URI,
		Line:      sym.Location.Start.Line,
		Character: sym.Location.Start.Column,
	}, nil
}

type overrideMethodsParams struct {
	SymbolID uint64 `json:"symbolId"`
}

// overrideMethods returns every symbol in the override chain of the
// requested method — both the ancestors it overrides and the
// descendants that override it — for an editor's "implement/override
// members" quick-pick.
func (s *Server) overrideMethods(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params overrideMethodsParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	id := index.SymbolID(params.SymbolID)
	seen := make(map[index.SymbolID]struct{})
	for rid := range s.index.FindRiddenUp(id) {
		seen[rid] = struct{}{}
	}
	for rid := range s.index.FindRiddenDown(id) {
		seen[rid] = struct{}{}
	}
	delete(seen, id)

	ids := make([]index.SymbolID, 0, len(seen))
	for rid := range seen {
		ids = append(ids, rid)
	}
	syms := s.index.Lookup(ids)

	out := make([]typeHierarchyItem, 0, len(syms))
	for _, sym := range syms {
		out = append(out, typeHierarchyItem{
			SymbolID: uint64(sym.ID),
			Name:     sym.Name,
			Detail:   sym.Signature,
			URI:      sym.URI,
			Range:    toProtocolRange(sym.Location),
		})
	}
	return out, nil
}

type exportsNameParams struct {
	Package string `json:"package"`
}

// exportsName lists the names a package makes visible to importers —
// every symbol whose modifier is at least internal, the same threshold
// the refactor planner's re-export phase uses.
func (s *Server) exportsName(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params exportsNameParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}

	var names []string
	for _, sym := range s.index.PackageSymbols(params.Package) {
		if sym.IsZeroLocation() {
			continue
		}
		switch sym.Modifier {
		case astif.ModifierInternal, astif.ModifierProtected, astif.ModifierPublic:
			names = append(names, sym.Name)
		}
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

type trackCompletionParams struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// trackCompletion is a fire-and-forget usage-telemetry notification: an
// editor reports which completion item the user accepted. It never
// returns an error; a malformed payload is simply dropped after a debug
// log line, matching the "internal invariant violations never surface
// as an LSP error" policy.
func (s *Server) trackCompletion(ctx *glsp.Context, raw json.RawMessage) (any, error) {
	var params trackCompletionParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.logger.Debug("trackCompletion: malformed payload", slog.Any("error", err))
		return nil, nil
	}
	s.logger.Debug("completion accepted",
		slog.String("uri", params.URI),
		slog.String("label", params.Label),
		slog.String("kind", params.Kind),
	)
	return nil, nil
}
