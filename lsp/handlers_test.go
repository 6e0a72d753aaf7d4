package lsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/config"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/position"
	cjproto "github.com/cangjie-tools/cjls/protocol"
)

func rng(startLine, startCol, endLine, endCol int) position.Range {
	return position.NewRange(
		position.New(0, startLine, startCol),
		position.New(0, endLine, endCol),
	)
}

type noFiles struct{}

func (noFiles) File(uri string) (astif.File, bool) { return nil, false }

func newTestServer(t *testing.T, idx *index.Index) *Server {
	t.Helper()
	return NewServer(nil, config.Config{ModuleRoot: "/root"}, idx, noFiles{})
}

func TestPackageFromDir_DerivesDottedPackageFromModuleRelativeDir(t *testing.T) {
	require.Equal(t, "a.c", packageFromDir("/root", "/root/a/c"))
	require.Equal(t, "app.widgets", packageFromDir("", "app/widgets"))
}

func TestSymbolAtPosition_FindsNarrowestContainingRef(t *testing.T) {
	idx := index.New()
	outer := index.SymbolID(1)
	inner := index.SymbolID(2)
	require.NoError(t, idx.Ingest(index.FileIngest{
		URI:     "file:///a.cj",
		Package: "app",
		Version: 1,
		Symbols: []*index.Symbol{
			{ID: outer, Name: "Outer", Location: rng(0, 0, 10, 0), URI: "file:///a.cj", Package: "app", Scope: "app"},
			{ID: inner, Name: "Inner", Location: rng(2, 0, 2, 5), URI: "file:///a.cj", Package: "app", Scope: "app"},
		},
		FileRefs: []struct {
			Ref    index.Ref
			Symbol index.SymbolID
		}{
			{Ref: index.Ref{Location: rng(0, 0, 10, 0), Kind: index.RefDefinition}, Symbol: outer},
			{Ref: index.Ref{Location: rng(2, 0, 2, 5), Kind: index.RefReference}, Symbol: inner},
		},
	}))

	s := newTestServer(t, idx)
	id, ok := s.symbolAtPosition("file:///a.cj", position.New(0, 2, 2))
	require.True(t, ok)
	require.Equal(t, inner, id)
}

func TestExportsName_FiltersOutPrivateAndZeroLocationSymbols(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Ingest(index.FileIngest{
		URI:     "file:///a.cj",
		Package: "app.widgets",
		Version: 1,
		Symbols: []*index.Symbol{
			{ID: 1, Name: "Public", Modifier: astif.ModifierPublic, Location: rng(0, 0, 1, 0), URI: "file:///a.cj", Package: "app.widgets", Scope: "app.widgets"},
			{ID: 2, Name: "Private", Modifier: astif.ModifierPrivate, Location: rng(1, 0, 2, 0), URI: "file:///a.cj", Package: "app.widgets", Scope: "app.widgets"},
			{ID: 3, Name: "Synthetic", Modifier: astif.ModifierPublic, URI: "file:///a.cj", Package: "app.widgets", Scope: "app.widgets"},
		},
	}))

	s := newTestServer(t, idx)
	raw, err := json.Marshal(exportsNameParams{Package: "app.widgets"})
	require.NoError(t, err)

	result, err := s.exportsName(nil, raw)
	require.NoError(t, err)
	require.Equal(t, []string{"Public"}, result)
}

func TestCrossLanguageJump_ResolvesQualifiedName(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Ingest(index.FileIngest{
		URI:     "file:///widget.cj",
		Package: "app.widgets",
		Version: 1,
		Symbols: []*index.Symbol{
			{ID: 1, Name: "Widget", Location: rng(3, 0, 3, 6), URI: "file:///widget.cj", Package: "app.widgets", Scope: "app.widgets"},
		},
	}))

	s := newTestServer(t, idx)
	raw, err := json.Marshal(map[string]string{"packageName": "app.widgets", "name": "Widget"})
	require.NoError(t, err)

	result, err := s.crossLanguageJump(nil, raw)
	require.NoError(t, err)
	loc, ok := result.(crossLanguageJumpLocation)
	require.True(t, ok)
	require.Equal(t, "file:///widget.cj", loc.URI)
	require.Equal(t, 3, loc.Line)
}

func TestCrossLanguageJump_UnresolvedReturnsNilNotError(t *testing.T) {
	idx := index.New()
	s := newTestServer(t, idx)
	raw, err := json.Marshal(map[string]string{"packageName": "app.widgets", "name": "Missing"})
	require.NoError(t, err)

	result, err := s.crossLanguageJump(nil, raw)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestFileRefactor_EmptyBatchWhenSourceFileUnresolved(t *testing.T) {
	idx := index.New()
	s := newTestServer(t, idx)
	req := map[string]string{
		"file":            "file:///root/Root.cj",
		"targetPath":      "/elsewhere",
		"selectedElement": "file:///root/Root.cj",
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)

	result, err := s.fileRefactor(nil, raw)
	require.NoError(t, err)
	resp, ok := result.(cjproto.FileRefactorResponse)
	require.True(t, ok)
	require.Empty(t, resp.Edits)
}

func TestOverrideMethods_CombinesAncestorsAndDescendants(t *testing.T) {
	idx := index.New()
	require.NoError(t, idx.Ingest(index.FileIngest{
		URI:     "file:///base.cj",
		Package: "app",
		Version: 1,
		Symbols: []*index.Symbol{
			{ID: 10, Name: "Base.M", Location: rng(0, 0, 1, 0), URI: "file:///base.cj", Package: "app", Scope: "app.Base"},
			{ID: 20, Name: "Mid.M", Location: rng(2, 0, 3, 0), URI: "file:///base.cj", Package: "app", Scope: "app.Mid"},
			{ID: 30, Name: "Derived.M", Location: rng(4, 0, 5, 0), URI: "file:///base.cj", Package: "app", Scope: "app.Derived"},
		},
		Relations: map[index.SymbolID][]index.Relation{
			20: {{To: 10, Label: index.RelationOverrides}},
			30: {{To: 20, Label: index.RelationOverrides}},
		},
	}))

	s := newTestServer(t, idx)
	raw, err := json.Marshal(overrideMethodsParams{SymbolID: 20})
	require.NoError(t, err)

	result, err := s.overrideMethods(nil, raw)
	require.NoError(t, err)
	items, ok := result.([]typeHierarchyItem)
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestTrackCompletion_MalformedPayloadNeverErrors(t *testing.T) {
	idx := index.New()
	s := newTestServer(t, idx)
	_, err := s.trackCompletion(nil, json.RawMessage(`not json`))
	require.NoError(t, err)
}

func TestDataToUint64_HandlesWireNumberShapes(t *testing.T) {
	require.Equal(t, uint64(5), dataToUint64(float64(5)))
	require.Equal(t, uint64(5), dataToUint64(uint64(5)))
	require.Equal(t, uint64(0), dataToUint64("nonsense"))
}
