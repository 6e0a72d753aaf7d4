package cheader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScan_ConstVarDeclarations(t *testing.T) {
	src := []byte(`
const char ch = 'a';
const int a = 0;
const unsigned int b = 0;
const unsigned long g = 0;
const float x = 1.0;
`)
	decls, err := Scan(src)
	require.NoError(t, err)
	require.Len(t, decls, 5)

	require.Equal(t, "ch", decls[0].Name)
	require.Equal(t, "char", decls[0].Type)
	require.Equal(t, []string{"const"}, decls[0].Qualifiers)
	require.Equal(t, "'a'", decls[0].Value)

	require.Equal(t, "b", decls[2].Name)
	require.Equal(t, "int", decls[2].Type)
	require.Equal(t, []string{"const", "unsigned"}, decls[2].Qualifiers)
}

func TestScan_EnumAssignsSequentialValues(t *testing.T) {
	src := []byte(`
enum Color {
RED, // defaults to 0
GREEN, // defaults to 1
BLUE = 5, // explicit 5
YELLOW // auto-increments to 6
};
`)
	decls, err := Scan(src)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.Equal(t, KindEnum, decls[0].Kind)
	require.Equal(t, "Color", decls[0].Name)
	require.Equal(t, []EnumValue{
		{Name: "RED", Value: 0},
		{Name: "GREEN", Value: 1},
		{Name: "BLUE", Value: 5},
		{Name: "YELLOW", Value: 6},
	}, decls[0].Values)
}

func TestScan_TypedefStructWithFlexibleArrayMember(t *testing.T) {
	src := []byte(`
typedef struct {
int length; // string length
char data[]; // flexible array member
} FlexibleString;
`)
	decls, err := Scan(src)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.Equal(t, KindStruct, decls[0].Kind)
	require.Equal(t, "FlexibleString", decls[0].Name)
	require.Equal(t, []Field{
		{Type: "int", Name: "length"},
		{Type: "char", Name: "data", Flexible: true},
	}, decls[0].Fields)
}

func TestScan_FunctionPrototype(t *testing.T) {
	src := []byte(`
int add(int a, int b);
void free_buffer(char *buf);
`)
	decls, err := Scan(src)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	require.Equal(t, KindFunction, decls[0].Kind)
	require.Equal(t, "add", decls[0].Name)
	require.Equal(t, "int", decls[0].Type)
	require.Equal(t, []Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}}, decls[0].Params)

	require.Equal(t, "free_buffer", decls[1].Name)
	require.Equal(t, "void", decls[1].Type)
	require.Equal(t, "char *", decls[1].Params[0].Type)
	require.Equal(t, "buf", decls[1].Params[0].Name)
}

func TestDecl_SignatureRendersEachKind(t *testing.T) {
	enum := Decl{Kind: KindEnum, Name: "Color", Values: []EnumValue{{Name: "RED", Value: 0}}}
	require.Equal(t, "enum Color { RED=0 }", enum.Signature())

	fn := Decl{Kind: KindFunction, Name: "add", Type: "int", Params: []Param{{Type: "int", Name: "a"}}}
	require.Equal(t, "int add(int a)", fn.Signature())
}
