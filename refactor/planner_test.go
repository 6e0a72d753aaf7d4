package refactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/position"
)

// fakeFile is a minimal astif.File for planner tests.
type fakeFile struct {
	uri        string
	pkg        string
	pkgRange   position.Range
	lastImport int
	imports    []astif.ImportSpec
	decls      []astif.Decl
}

func (f *fakeFile) URI() string                  { return f.uri }
func (f *fakeFile) Package() string              { return f.pkg }
func (f *fakeFile) PackageRange() position.Range { return f.pkgRange }
func (f *fakeFile) LastImportLine() int          { return f.lastImport }
func (f *fakeFile) Imports() []astif.ImportSpec  { return f.imports }
func (f *fakeFile) Decls() []astif.Decl          { return f.decls }
func (f *fakeFile) Lines() position.Lines        { return nil }

type fakeRegistry map[string]astif.File

func (r fakeRegistry) File(uri string) (astif.File, bool) {
	f, ok := r[uri]
	return f, ok
}

func rng(startLine, startCol, endLine, endCol int) position.Range {
	return position.NewRange(
		position.New(0, startLine, startCol),
		position.New(0, endLine, endCol),
	)
}

// S1: the moved file's own package declaration is rewritten.
func TestPlan_RewritesMovedFilePackageDeclaration(t *testing.T) {
	idx := index.New()
	moved := &fakeFile{
		uri:        "file:///a/Widget.cj",
		pkg:        "app.widgets",
		pkgRange:   rng(0, 8, 0, 20),
		lastImport: 0,
	}
	reg := fakeRegistry{moved.uri: moved}
	p := &Planner{Index: idx, Files: reg}

	batch := p.Plan(Request{SourceFile: moved.uri, TargetPackage: "app.ui.widgets"})

	edits := batch[moved.uri]
	require.NotEmpty(t, edits)
	require.Equal(t, EditChanged, edits[0].Kind)
	require.Equal(t, "app.ui.widgets", edits[0].Content)
	require.Equal(t, moved.pkgRange, edits[0].Range)
}

// S2: moving a file whose imports become child-relation imports of the
// new package triggers an import add for a protected/public dependency.
func TestPlan_AddsImportWhenRelationBecomesChild(t *testing.T) {
	idx := index.New()

	depSym := &index.Symbol{ID: 1, Name: "Helper", Kind: astif.KindClass, Package: "app.util", Scope: "app.util", Location: rng(1, 0, 1, 10), URI: "file:///a/Helper.cj"}
	idx.Ingest(index.FileIngest{URI: depSym.URI, Package: depSym.Package, Version: 1, Symbols: []*index.Symbol{depSym}})

	importSpec := astif.ImportSpec{
		Package:      "app.util",
		Member:       "Helper",
		Modifier:     astif.ModifierPublic,
		Range:        rng(2, 0, 2, 20),
		PackageRange: rng(2, 7, 2, 15),
		MemberRange:  rng(2, 16, 2, 22),
		SiblingCount: 1,
	}
	moved := &fakeFile{
		uri:        "file:///a/Widget.cj",
		pkg:        "app.widgets",
		pkgRange:   rng(0, 8, 0, 20),
		lastImport: 2,
		imports:    []astif.ImportSpec{importSpec},
	}
	idx.Ingest(index.FileIngest{
		URI: moved.uri, Package: moved.pkg, Version: 1,
		FileRefs: []struct {
			Ref    index.Ref
			Symbol index.SymbolID
		}{
			{Ref: index.Ref{Location: importSpec.Range, Kind: index.RefImport}, Symbol: depSym.ID},
		},
	})

	reg := fakeRegistry{moved.uri: moved}
	p := &Planner{Index: idx, Files: reg}

	batch := p.Plan(Request{SourceFile: moved.uri, TargetPackage: "app.util.widgets"})

	edits := batch[moved.uri]
	require.NotEmpty(t, edits)

	var sawAdd bool
	for _, e := range edits {
		if e.Kind == EditAdd {
			sawAdd = true
		}
	}
	require.True(t, sawAdd, "expected an import-add edit for the now-child dependency")
}

// S3: an import whose target package becomes identical to the moved
// file's new package (a formerly cross-package import that move makes
// redundant) is deleted outright when carrying no modifier.
func TestPlan_DeletesImportWhenMoveMakesItSamePackage(t *testing.T) {
	idx := index.New()

	importSpec := astif.ImportSpec{
		Package:      "app.other",
		Member:       "Helper",
		Modifier:     astif.ModifierUndefined,
		Range:        rng(2, 0, 2, 20),
		PackageRange: rng(2, 7, 2, 17),
		MemberRange:  rng(2, 18, 2, 24),
		SiblingCount: 1,
	}
	moved := &fakeFile{
		uri:        "file:///a/Widget.cj",
		pkg:        "app.widgets",
		pkgRange:   rng(0, 8, 0, 20),
		lastImport: 2,
		imports:    []astif.ImportSpec{importSpec},
	}
	depSym := &index.Symbol{ID: 2, Name: "Helper", Kind: astif.KindClass, Package: "app.other", Scope: "app.other", Location: rng(1, 0, 1, 10), URI: "file:///a/Helper.cj"}
	idx.Ingest(index.FileIngest{URI: depSym.URI, Package: depSym.Package, Version: 1, Symbols: []*index.Symbol{depSym}})
	idx.Ingest(index.FileIngest{
		URI: moved.uri, Package: moved.pkg, Version: 1,
		FileRefs: []struct {
			Ref    index.Ref
			Symbol index.SymbolID
		}{
			{Ref: index.Ref{Location: importSpec.Range, Kind: index.RefImport}, Symbol: depSym.ID},
		},
	})

	reg := fakeRegistry{moved.uri: moved}
	p := &Planner{Index: idx, Files: reg}

	// Moving Widget.cj into app.other makes its import of Helper
	// redundant, since Helper now lives in the file's own package.
	batch := p.Plan(Request{SourceFile: moved.uri, TargetPackage: "app.other"})

	edits := batch[moved.uri]
	var sawDelete bool
	for _, e := range edits {
		if e.Kind == EditDeleted && rangeEqual(e.Range, importSpec.Range) {
			sawDelete = true
		}
	}
	require.True(t, sawDelete, "expected the same-package import to be deleted")
}

// S4: multi-import member deletion takes the trailing comma, leaving
// siblings' ranges untouched.
func TestMultiImportMemberDeleteRange_TakesTrailingComma(t *testing.T) {
	spec := astif.ImportSpec{
		MemberRange:  rng(2, 10, 2, 11),
		CommaAfter:   position.New(0, 2, 11),
		CommaBefore:  position.Absent,
		SiblingCount: 3,
	}
	got := multiImportMemberDeleteRange(spec)
	require.Equal(t, position.New(0, 2, 10), got.Start)
	require.Equal(t, position.New(0, 2, 12), got.End)
}

// S4b: the last member in a multi-import falls back to its leading comma.
func TestMultiImportMemberDeleteRange_FallsBackToLeadingComma(t *testing.T) {
	spec := astif.ImportSpec{
		MemberRange:  rng(2, 20, 2, 21),
		CommaAfter:   position.Absent,
		CommaBefore:  position.New(0, 2, 19),
		SiblingCount: 3,
	}
	got := multiImportMemberDeleteRange(spec)
	require.Equal(t, position.New(0, 2, 19), got.Start)
	require.Equal(t, position.New(0, 2, 21), got.End)
}

// S5: Batch.Finalize deduplicates and drops subsumed narrower deletes.
func TestBatch_FinalizeDropsSubsumedDeletes(t *testing.T) {
	batch := make(Batch)
	wide := Edit{Kind: EditDeleted, Range: rng(2, 0, 2, 30)}
	narrow := Edit{Kind: EditDeleted, Range: rng(2, 10, 2, 15)}
	batch.add("file:///a.cj", wide)
	batch.add("file:///a.cj", narrow)
	batch.add("file:///a.cj", wide) // exact duplicate

	batch.Finalize()

	edits := batch["file:///a.cj"]
	require.Len(t, edits, 1)
	require.Equal(t, wide, edits[0])
}

// S6: a cross-module move is rejected outright, producing no edits.
func TestPlan_RejectsCrossModuleMove(t *testing.T) {
	idx := index.New()
	moved := &fakeFile{
		uri: "file:///a/Widget.cj",
		pkg: "app.widgets",
	}
	reg := fakeRegistry{moved.uri: moved}
	p := &Planner{Index: idx, Files: reg}

	batch := p.Plan(Request{SourceFile: moved.uri, TargetPackage: "other.root"})

	require.Empty(t, batch)
}
