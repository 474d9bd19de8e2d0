package tree

import (
	"fmt"
	"strings"
)

type ValueKind int

const (
	NoneValue ValueKind = iota
	StringValue
	NodeValue
	MultiStringValue
	MultiNodeValue
)

func (k ValueKind) String() string {
	switch k {
	case NoneValue:
		return "None"
	case StringValue:
		return "String"
	case NodeValue:
		return "Node"
	case MultiStringValue:
		return "MultiString"
	case MultiNodeValue:
		return "MultiNode"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a decoded property value.  Which field is set depends on Kind.
type Value struct {
	Kind    ValueKind
	String  string
	Node    uint32
	Strings []string
	Nodes   []uint32
}

func None() Value                  { return Value{Kind: NoneValue} }
func FromString(s string) Value    { return Value{Kind: StringValue, String: s} }
func FromNode(off uint32) Value    { return Value{Kind: NodeValue, Node: off} }
func FromStrings(s []string) Value { return Value{Kind: MultiStringValue, Strings: s} }
func FromNodes(o []uint32) Value   { return Value{Kind: MultiNodeValue, Nodes: o} }

func (v Value) IsNone() bool { return v.Kind == NoneValue }

func (v Value) GoString() string {
	switch v.Kind {
	case StringValue:
		return fmt.Sprintf("String(%q)", v.String)
	case NodeValue:
		return fmt.Sprintf("Node(@%d)", v.Node)
	case MultiStringValue:
		return fmt.Sprintf("MultiString(%q)", v.Strings)
	case MultiNodeValue:
		parts := make([]string, len(v.Nodes))
		for i, o := range v.Nodes {
			parts[i] = fmt.Sprintf("@%d", o)
		}
		return "MultiNode[" + strings.Join(parts, " ") + "]"
	default:
		return "None"
	}
}

type Property struct {
	Name  string
	Value Value
}

// Node is a decoded view of one node of the buffer.
type Node struct {
	Offset     uint32
	KindIndex  uint32
	Kind       string
	Length     uint32
	Properties []Property
}

// Get returns the value of the property named name.
func (n *Node) Get(name string) (Value, bool) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return n.Properties[i].Value, true
		}
	}
	return Value{}, false
}

// Children returns the offsets of all child nodes in property order.
func (n *Node) Children() []uint32 {
	var res []uint32
	for i := range n.Properties {
		v := &n.Properties[i].Value
		switch v.Kind {
		case NodeValue:
			res = append(res, v.Node)
		case MultiNodeValue:
			res = append(res, v.Nodes...)
		}
	}
	return res
}

// End returns the buffer index just past this node.
func (n *Node) End() int {
	return int(n.Offset) + 2 + int(n.Length)
}

func (n *Node) String() string {
	return fmt.Sprintf("%s@%d", n.Kind, n.Offset)
}
