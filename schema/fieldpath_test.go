package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/format"
)

func TestBuildFieldPathsFlat(t *testing.T) {
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(1)},
		{Name: "id", Type: ptrType(format.Int32), RepetitionType: ptrRep(format.Required)},
	}
	root, err := Build(elements)
	require.NoError(t, err)

	paths := BuildFieldPaths(root)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Steps, 1)
	require.Equal(t, StepLeaf, paths[0].Steps[0].Kind)
	require.Equal(t, "id", paths[0].Steps[0].Name)
	require.Equal(t, 0, paths[0].MaxDef)
}

func TestBuildFieldPathsList(t *testing.T) {
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(1)},
		{Name: "tags", RepetitionType: ptrRep(format.Optional), NumChildren: ptrI32(1), ConvertedType: ptrConv(format.List)},
		{Name: "list", RepetitionType: ptrRep(format.Repeated), NumChildren: ptrI32(1)},
		{Name: "element", Type: ptrType(format.ByteArray), RepetitionType: ptrRep(format.Optional)},
	}
	root, err := Build(elements)
	require.NoError(t, err)

	paths := BuildFieldPaths(root)
	require.Len(t, paths, 1)
	steps := paths[0].Steps
	require.Len(t, steps, 3)

	require.Equal(t, StepList, steps[0].Kind)
	require.Equal(t, "tags", steps[0].Name)

	require.Equal(t, StepRepeated, steps[1].Kind)
	require.Equal(t, 1, steps[1].NumChildren)

	require.Equal(t, StepLeaf, steps[2].Kind)
}

func TestBuildFieldPathsMap(t *testing.T) {
	// message root { optional group attrs (MAP) { repeated group key_value { required binary key; optional int32 value; } } }
	elements := []format.SchemaElement{
		{Name: "root", NumChildren: ptrI32(1)},
		{Name: "attrs", RepetitionType: ptrRep(format.Optional), NumChildren: ptrI32(1), ConvertedType: ptrConv(format.Map)},
		{Name: "key_value", RepetitionType: ptrRep(format.Repeated), NumChildren: ptrI32(2)},
		{Name: "key", Type: ptrType(format.ByteArray), RepetitionType: ptrRep(format.Required)},
		{Name: "value", Type: ptrType(format.Int32), RepetitionType: ptrRep(format.Optional)},
	}
	root, err := Build(elements)
	require.NoError(t, err)

	paths := BuildFieldPaths(root)
	require.Len(t, paths, 2)

	keySteps := paths[0].Steps
	require.Equal(t, StepMap, keySteps[0].Kind)
	require.Equal(t, StepRepeated, keySteps[1].Kind)
	require.Equal(t, 2, keySteps[1].NumChildren)
	require.Equal(t, StepLeaf, keySteps[2].Kind)

	valueSteps := paths[1].Steps
	require.Equal(t, StepLeaf, valueSteps[2].Kind)
}
