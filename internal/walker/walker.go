// Package walker traverses a node tree children first.
package walker

import (
	"errors"
	"fmt"

	"github.com/chriserin/ftgen/internal/nodes"
)

// ErrCycle is returned when a node is reached again while one of its own
// descendants is being walked. Trees must be acyclic.
var ErrCycle = errors.New("walker: cycle in node tree")

// VisitFunc is called once per visited value, after all of its children.
type VisitFunc func(v nodes.Value) error

// Walk visits root depth first in post-order. Slots are walked in
// declaration order and list elements in sequence. A node shared by several
// parents is visited once. Scalars, including nil, are visited as leaves.
func Walk(root nodes.Value, visit VisitFunc) error {
	w := &walk{
		visit:   visit,
		done:    make(map[nodes.ID]bool),
		walking: make(map[nodes.ID]bool),
	}
	return w.value(root)
}

type walk struct {
	visit   VisitFunc
	done    map[nodes.ID]bool
	walking map[nodes.ID]bool
}

func (w *walk) value(v nodes.Value) error {
	switch t := v.(type) {
	case *nodes.Node:
		return w.node(t)
	case nodes.List:
		for _, item := range t {
			if err := w.value(item); err != nil {
				return err
			}
		}
	}
	return w.visit(v)
}

func (w *walk) node(n *nodes.Node) error {
	id := n.ID()
	if w.done[id] {
		return nil
	}
	if w.walking[id] {
		return fmt.Errorf("%w: %s", ErrCycle, n)
	}
	w.walking[id] = true
	for _, s := range n.Slots() {
		if err := w.value(s.Value); err != nil {
			return err
		}
	}
	delete(w.walking, id)
	w.done[id] = true
	return w.visit(n)
}
