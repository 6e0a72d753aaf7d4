package lint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/position"
)

type fakeFile struct {
	uri     string
	imports []astif.ImportSpec
}

func (f *fakeFile) URI() string                  { return f.uri }
func (f *fakeFile) Package() string              { return "app" }
func (f *fakeFile) PackageRange() position.Range { return position.Range{} }
func (f *fakeFile) LastImportLine() int          { return 0 }
func (f *fakeFile) Imports() []astif.ImportSpec  { return f.imports }
func (f *fakeFile) Decls() []astif.Decl          { return nil }
func (f *fakeFile) Lines() position.Lines        { return nil }

func rng(startLine, startCol, endLine, endCol int) position.Range {
	return position.NewRange(
		position.New(0, startLine, startCol),
		position.New(0, endLine, endCol),
	)
}

func TestAvoidWildcardImport_FlagsWholePackageImport(t *testing.T) {
	f := &fakeFile{
		uri: "file:///a.cj",
		imports: []astif.ImportSpec{
			{Package: "std.collection", Member: "", Range: rng(0, 0, 0, 20)},
			{Package: "std.math", Member: "sqrt", Range: rng(1, 0, 1, 15)},
		},
	}

	diags := Run([]astif.File{f}, DefaultRules())
	require.Len(t, diags, 1)
	require.Equal(t, "G.PKG.01", diags[0].Code)
	require.Equal(t, Warning, diags[0].Severity)
	require.Contains(t, diags[0].Message, "std.collection")
}

func TestAvoidWildcardImport_AllowsNamedMemberImports(t *testing.T) {
	f := &fakeFile{
		uri: "file:///b.cj",
		imports: []astif.ImportSpec{
			{Package: "std.math", Member: "sqrt", Range: rng(0, 0, 0, 15)},
		},
	}

	diags := Run([]astif.File{f}, DefaultRules())
	require.Empty(t, diags)
}
