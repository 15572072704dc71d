// Package schema turns the flat, pre-order SchemaElement list out of a
// Parquet footer into a tree of Nodes with per-leaf max_def/max_rep, and the
// flattened ColumnSchema projection the rest of the reader walks.
package schema

import (
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// Node is one element of the schema tree: either a primitive leaf or a
// group (struct/list/map container).
type Node struct {
	Name           string
	Repetition     format.FieldRepetitionType
	MaxDef, MaxRep int

	IsPrimitive bool
	Physical    format.Type
	Logical     *format.LogicalType
	TypeLength  int32

	IsList, IsMap bool
	Children      []*Node
	Parent        *Node
}

// Build reconstructs the schema tree from a footer's flat SchemaElement
// list. elements[0] is the message root and is not itself a Node; its
// children become the tree's top-level fields.
func Build(elements []format.SchemaElement) (*Node, error) {
	if len(elements) == 0 {
		return nil, parqerr.New(parqerr.MalformedFile, "schema: empty schema element list")
	}
	root := elements[0]
	if root.NumChildren == nil {
		return nil, parqerr.New(parqerr.MalformedFile, "schema: root element missing num_children")
	}
	cursor := 1
	top := &Node{Name: root.Name, Repetition: format.Required, MaxDef: 0, MaxRep: 0}
	children, next, err := buildChildren(elements, cursor, int(*root.NumChildren), top)
	if err != nil {
		return nil, err
	}
	if next != len(elements) {
		return nil, parqerr.New(parqerr.MalformedFile, "schema: %d trailing schema elements unconsumed", len(elements)-next)
	}
	top.Children = children
	return top, nil
}

func buildChildren(elements []format.SchemaElement, pos int, count int, parent *Node) ([]*Node, int, error) {
	children := make([]*Node, 0, count)
	for k := 0; k < count; k++ {
		if pos >= len(elements) {
			return nil, 0, parqerr.New(parqerr.MalformedFile, "schema: truncated schema element list")
		}
		el := elements[pos]
		pos++

		rep := format.Required
		if el.RepetitionType != nil {
			rep = *el.RepetitionType
		}
		node := &Node{
			Name:       el.Name,
			Repetition: rep,
			Parent:     parent,
		}
		node.MaxDef = parent.MaxDef
		node.MaxRep = parent.MaxRep
		if rep == format.Optional || rep == format.Repeated {
			node.MaxDef++
		}
		if rep == format.Repeated {
			node.MaxRep++
		}

		if el.NumChildren == nil || *el.NumChildren == 0 {
			if el.Type == nil {
				return nil, 0, parqerr.New(parqerr.MalformedFile, "schema: leaf %q missing physical type", el.Name)
			}
			node.IsPrimitive = true
			node.Physical = *el.Type
			node.Logical = el.LogicalType
			if el.TypeLength != nil {
				node.TypeLength = *el.TypeLength
			}
		} else {
			grandchildren, newPos, err := buildChildren(elements, pos, int(*el.NumChildren), node)
			if err != nil {
				return nil, 0, err
			}
			pos = newPos
			node.Children = grandchildren
			classifyGroup(node, el)
			if err := validateGroup(node); err != nil {
				return nil, 0, err
			}
		}

		children = append(children, node)
	}
	return children, pos, nil
}

func classifyGroup(node *Node, el format.SchemaElement) {
	if el.ConvertedType == nil {
		return
	}
	switch *el.ConvertedType {
	case format.List:
		node.IsList = true
	case format.Map, format.MapKeyValue:
		node.IsMap = true
	}
}

func validateGroup(node *Node) error {
	if node.IsList {
		if len(node.Children) != 1 || node.Children[0].Repetition != format.Repeated {
			return parqerr.New(parqerr.MalformedFile, "schema: LIST group %q must have exactly one repeated child", node.Name)
		}
		wrapper := node.Children[0]
		if len(wrapper.Children) != 1 {
			return parqerr.New(parqerr.MalformedFile, "schema: LIST group %q repeated child must have exactly one child", node.Name)
		}
	}
	if node.IsMap {
		if len(node.Children) != 1 || node.Children[0].Repetition != format.Repeated {
			return parqerr.New(parqerr.MalformedFile, "schema: MAP group %q must have exactly one repeated child", node.Name)
		}
		wrapper := node.Children[0]
		if len(wrapper.Children) != 2 {
			return parqerr.New(parqerr.MalformedFile, "schema: MAP group %q key-value child must have exactly two children", node.Name)
		}
	}
	return nil
}

// ColumnSchema is the flattened projection of one primitive leaf.
type ColumnSchema struct {
	NamePath    []string
	LeafName    string
	ColumnIndex int
	Physical    format.Type
	Logical     *format.LogicalType
	TypeLength  int32
	MaxDef      int
	MaxRep      int
	Node        *Node
}

// Leaves walks root in the same pre-order the file's columns are stored in,
// returning one ColumnSchema per primitive leaf.
func Leaves(root *Node) []ColumnSchema {
	var out []ColumnSchema
	var walk func(n *Node, path []string)
	walk = func(n *Node, path []string) {
		for _, child := range n.Children {
			childPath := append(append([]string{}, path...), child.Name)
			if child.IsPrimitive {
				out = append(out, ColumnSchema{
					NamePath:    childPath,
					LeafName:    child.Name,
					ColumnIndex: len(out),
					Physical:    child.Physical,
					Logical:     child.Logical,
					TypeLength:  child.TypeLength,
					MaxDef:      child.MaxDef,
					MaxRep:      child.MaxRep,
					Node:        child,
				})
			} else {
				walk(child, childPath)
			}
		}
	}
	walk(root, nil)
	return out
}

// Lookup finds the top-level field named name among root's direct children.
func Lookup(root *Node, name string) (*Node, bool) {
	for _, c := range root.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
