// Package nodes defines the immutable tree a test project is rendered from.
package nodes

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Argument names with a special meaning for Gherkin based dialects.
const (
	FreeTextArg  = "__free_text"
	DatatableArg = "__datatable"
)

// ID is the stable handle of a node, assigned once at construction.
type ID uint64

var lastID atomic.Uint64

// Value is a child value: *Node, List, String, Number or Bool.
// A nil Value is the null scalar.
type Value interface {
	isValue()
}

// List is an ordered sequence of values.
type List []Value

// String is a text scalar.
type String string

// Number is a numeric scalar.
type Number float64

// Bool is a boolean scalar.
type Bool bool

func (*Node) isValue()  {}
func (List) isValue()   {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}

// Slot is a named child of a node.
type Slot struct {
	Name  string
	Value Value
}

// Node is a tagged tree element with ordered named slots.
// Nodes never change after New returns.
type Node struct {
	id    ID
	kind  Kind
	slots []Slot
}

// New builds a node of the given kind. It panics on an unknown kind or a
// duplicate slot name: both are programming errors.
func New(kind Kind, slots ...Slot) *Node {
	if !kind.IsValid() {
		panic(fmt.Sprintf("nodes: unknown kind %q", kind))
	}
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		if seen[s.Name] {
			panic(fmt.Sprintf("nodes: duplicate slot %q on %s", s.Name, kind))
		}
		seen[s.Name] = true
	}
	own := make([]Slot, len(slots))
	copy(own, slots)
	return &Node{id: ID(lastID.Add(1)), kind: kind, slots: own}
}

func (n *Node) ID() ID     { return n.id }
func (n *Node) Kind() Kind { return n.kind }

// Slots returns a copy of the node's slots in declaration order.
func (n *Node) Slots() []Slot {
	out := make([]Slot, len(n.slots))
	copy(out, n.slots)
	return out
}

// Child returns the value held in the named slot, or nil. A nil node has
// no children.
func (n *Node) Child(name string) Value {
	if n == nil {
		return nil
	}
	for _, s := range n.slots {
		if s.Name == name {
			return s.Value
		}
	}
	return nil
}

// ChildNode returns the named child when it is a node.
func (n *Node) ChildNode(name string) *Node {
	c, _ := n.Child(name).(*Node)
	return c
}

// ChildList returns the named child when it is a list.
func (n *Node) ChildList(name string) List {
	l, _ := n.Child(name).(List)
	return l
}

// ChildNodes returns the nodes of the named list child, skipping scalars.
func (n *Node) ChildNodes(name string) []*Node {
	var out []*Node
	for _, v := range n.ChildList(name) {
		if c, ok := v.(*Node); ok {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the named child as a string. Non string values yield "".
func (n *Node) Text(name string) string {
	s, _ := n.Child(name).(String)
	return string(s)
}

func (n *Node) String() string {
	if name := n.Text("name"); name != "" {
		return fmt.Sprintf("%s(%q)#%d", n.kind, name, n.id)
	}
	return fmt.Sprintf("%s#%d", n.kind, n.id)
}

// RawText returns the undecorated text of a literal or variable: the literal
// value itself, or "<name>" for a variable.
func RawText(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case String:
		return string(t)
	case Number:
		return fmt.Sprint(float64(t))
	case Bool:
		return fmt.Sprint(bool(t))
	case List:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = RawText(item)
		}
		return strings.Join(parts, " ")
	case *Node:
		switch t.kind {
		case KindStringLiteral, KindNumericLiteral:
			return t.Text("value")
		case KindVariable:
			return "<" + t.Text("name") + ">"
		case KindArgument:
			return RawText(t.Child("value"))
		}
	}
	return ""
}
