package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/format"
)

func ptrType(t format.Type) *format.Type                             { return &t }
func ptrRep(r format.FieldRepetitionType) *format.FieldRepetitionType { return &r }
func ptrI32(v int32) *int32                                           { return &v }
func ptrConv(c format.ConvertedType) *format.ConvertedType            { return &c }

func TestBuildFlatSchema(t *testing.T) {
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(2)},
		{Name: "id", Type: ptrType(format.Int32), RepetitionType: ptrRep(format.Required)},
		{Name: "name", Type: ptrType(format.ByteArray), RepetitionType: ptrRep(format.Optional)},
	}

	root, err := Build(elements)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	id := root.Children[0]
	require.True(t, id.IsPrimitive)
	require.Equal(t, 0, id.MaxDef)
	require.Equal(t, 0, id.MaxRep)

	name := root.Children[1]
	require.True(t, name.IsPrimitive)
	require.Equal(t, 1, name.MaxDef)
	require.Equal(t, 0, name.MaxRep)

	leaves := Leaves(root)
	require.Len(t, leaves, 2)
	require.Equal(t, []string{"id"}, leaves[0].NamePath)
	require.Equal(t, []string{"name"}, leaves[1].NamePath)
}

func TestBuildListSchema(t *testing.T) {
	// message root { optional group tags (LIST) { repeated group list { optional binary element; } } }
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(1)},
		{Name: "tags", RepetitionType: ptrRep(format.Optional), NumChildren: ptrI32(1), ConvertedType: ptrConv(format.List)},
		{Name: "list", RepetitionType: ptrRep(format.Repeated), NumChildren: ptrI32(1)},
		{Name: "element", Type: ptrType(format.ByteArray), RepetitionType: ptrRep(format.Optional)},
	}

	root, err := Build(elements)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	tags := root.Children[0]
	require.True(t, tags.IsList)
	require.Equal(t, 1, tags.MaxDef)

	wrapper := tags.Children[0]
	require.Equal(t, format.Repeated, wrapper.Repetition)
	require.Equal(t, 1, wrapper.MaxRep)

	element := wrapper.Children[0]
	require.True(t, element.IsPrimitive)
	require.Equal(t, 3, element.MaxDef) // optional tags(+1) + repeated list(+1) + optional element(+1)
	require.Equal(t, 1, element.MaxRep)
}

func TestBuildRejectsEmptySchema(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(1)},
		{Name: "id", Type: ptrType(format.Int32), RepetitionType: ptrRep(format.Required)},
	}
	root, err := Build(elements)
	require.NoError(t, err)

	node, ok := Lookup(root, "id")
	require.True(t, ok)
	require.Equal(t, "id", node.Name)

	_, ok = Lookup(root, "missing")
	require.False(t, ok)
}
