package dirtree

import "fmt"

// Arena owns every node of one tree. Nodes are only ever appended; a
// NodeID is the node's slot index.
//
// An Arena is not safe for concurrent mutation. Once no more nodes are
// allocated or attached it may be read from any number of goroutines.
type Arena struct {
	nodes []node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Len returns the number of allocated nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Contains reports whether id was issued by this arena.
func (a *Arena) Contains(id NodeID) bool {
	return id < NodeID(len(a.nodes))
}

// Allocate creates a new unattached node and returns its ID.
func (a *Arena) Allocate(p Payload) NodeID {
	id := NodeID(len(a.nodes))
	a.nodes = append(a.nodes, node{payload: p})
	return id
}

// Attach appends child to parent's child list.
//
// Both IDs must belong to this arena, child must not already have a parent,
// and parent must be a directory. Violations are programming errors and panic.
func (a *Arena) Attach(parent, child NodeID) {
	if !a.Contains(parent) || !a.Contains(child) {
		panic(fmt.Sprintf("dirtree: attach %d -> %d: %v", parent, child, ErrUnknownNode))
	}
	if parent == child {
		panic(fmt.Sprintf("dirtree: attach %d to itself", child))
	}
	c := &a.nodes[child]
	if c.hasParent {
		panic(fmt.Sprintf("dirtree: node %d already attached to %d", child, c.parent))
	}
	p := &a.nodes[parent]
	if !p.payload.IsDir() {
		panic(fmt.Sprintf("dirtree: attach %d -> %d: %v", parent, child, ErrNotADirectory))
	}
	c.parent = parent
	c.hasParent = true
	p.children = append(p.children, child)
}

// Payload returns the node's payload.
func (a *Arena) Payload(id NodeID) (Payload, error) {
	if !a.Contains(id) {
		return Payload{}, fmt.Errorf("payload of %d: %w", id, ErrUnknownNode)
	}
	return a.nodes[id].payload, nil
}

// Children returns id's children in insertion order. The slice is the
// arena's own; callers must not modify it or hold it across a mutation.
// Returns nil for unknown IDs and for files.
func (a *Arena) Children(id NodeID) []NodeID {
	if !a.Contains(id) {
		return nil
	}
	return a.nodes[id].children
}

// Parent returns id's parent. The second result is false for a root,
// an unattached node, or an unknown ID.
func (a *Arena) Parent(id NodeID) (NodeID, bool) {
	if !a.Contains(id) {
		return NoNode, false
	}
	n := &a.nodes[id]
	if !n.hasParent {
		return NoNode, false
	}
	return n.parent, true
}

// payload is the unchecked form of Payload for traversal code that only
// follows IDs taken from the arena itself.
func (a *Arena) payload(id NodeID) *Payload {
	return &a.nodes[id].payload
}
