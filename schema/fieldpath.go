package schema

import "github.com/dnlrv/parqstream/format"

// StepKind classifies one hop of a FieldPath during Dremel record assembly.
type StepKind int

const (
	StepStruct StepKind = iota
	StepList
	StepMap
	StepRepeated
	StepLeaf
)

// Step is one precomputed hop from the schema root toward a primitive leaf.
// FieldIndex selects a child within the enclosing struct-shaped container
// (the message root, a plain group, or a map's key/value pair). NumChildren
// is only meaningful on a StepRepeated step: it tells the assembler whether
// the element shape beneath the repeated wrapper is a bare value (list,
// NumChildren==1) or a key/value pair (map, NumChildren==2).
type Step struct {
	Kind            StepKind
	Name            string
	FieldIndex      int
	DefinitionLevel int
	NumChildren     int
}

// FieldPath is the full precomputed walk from root to one primitive leaf,
// built once at schema time so assembly never re-derives it per value.
type FieldPath struct {
	Steps       []Step
	MaxDef      int
	MaxRep      int
	ColumnIndex int
	Physical    format.Type
}

// BuildFieldPaths computes one FieldPath per leaf returned by Leaves(root),
// in the same order.
func BuildFieldPaths(root *Node) []FieldPath {
	leaves := Leaves(root)
	paths := make([]FieldPath, len(leaves))
	for i, leaf := range leaves {
		paths[i] = FieldPath{
			Steps:       pathSteps(leaf.Node),
			MaxDef:      leaf.MaxDef,
			MaxRep:      leaf.MaxRep,
			ColumnIndex: leaf.ColumnIndex,
			Physical:    leaf.Physical,
		}
	}
	return paths
}

// pathSteps walks from leaf up to the message root via Parent pointers,
// collecting steps in root-to-leaf order.
func pathSteps(leaf *Node) []Step {
	var chain []*Node
	for n := leaf; n.Parent != nil; n = n.Parent {
		chain = append(chain, n)
	}
	// chain is leaf-to-root; reverse to root-to-leaf.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var steps []Step
	for i, n := range chain {
		parent := n.Parent
		fieldIndex := indexOf(parent, n)

		switch {
		case parent != nil && parent.IsList:
			// n is the list's repeated wrapper child: select/extend the
			// current element by index, no slot name of its own.
			steps = append(steps, Step{Kind: StepRepeated, DefinitionLevel: n.MaxDef, NumChildren: 1})
		case parent != nil && parent.IsMap:
			steps = append(steps, Step{Kind: StepRepeated, DefinitionLevel: n.MaxDef, NumChildren: 2})
		case n.IsList:
			steps = append(steps, Step{Kind: StepList, Name: n.Name, FieldIndex: fieldIndex, DefinitionLevel: n.MaxDef})
		case n.IsMap:
			steps = append(steps, Step{Kind: StepMap, Name: n.Name, FieldIndex: fieldIndex, DefinitionLevel: n.MaxDef})
		default:
			steps = append(steps, Step{Kind: StructKindFor(n), Name: n.Name, FieldIndex: fieldIndex, DefinitionLevel: n.MaxDef})
		}

		if n.IsPrimitive && i == len(chain)-1 {
			steps[len(steps)-1].Kind = StepLeaf
		}
	}
	return steps
}

// StructKindFor reports the step kind a node contributes when reached as an
// ordinary (non-list, non-map-wrapper) struct field.
func StructKindFor(n *Node) StepKind {
	return StepStruct
}

func indexOf(parent *Node, child *Node) int {
	if parent == nil {
		return 0
	}
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}
