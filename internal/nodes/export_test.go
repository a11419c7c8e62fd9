package nodes

// NewWithID builds a node reusing an existing ID, which lets tests fake a
// cyclic tree.
func NewWithID(id ID, kind Kind, slots ...Slot) *Node {
	n := New(kind, slots...)
	n.id = id
	return n
}
