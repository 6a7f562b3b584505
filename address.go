package dirtree

import (
	"fmt"
	"strings"
)

// Path returns the absolute slash-separated path of id: "/" for the root,
// "/a/e" below it. Unknown IDs yield "".
func (t *Tree) Path(id NodeID) string {
	if !t.arena.Contains(id) {
		return ""
	}
	if id == t.root {
		return "/"
	}
	var names []string
	for n := id; n != t.root; {
		names = append(names, t.arena.payload(n).Name)
		parent, ok := t.arena.Parent(n)
		if !ok {
			break
		}
		n = parent
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(names[i])
	}
	return b.String()
}

// Ancestors returns id's ancestors from its parent up to and including the
// root. The root has none.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for n := id; ; {
		parent, ok := t.arena.Parent(n)
		if !ok {
			return out
		}
		out = append(out, parent)
		n = parent
	}
}

// Depth returns the number of parent links between id and the root.
func (t *Tree) Depth(id NodeID) int {
	return len(t.Ancestors(id))
}

// Lookup resolves an absolute path such as "/a/e" or "/b.txt". Each segment
// picks the first child with that name, directories before files when both
// exist. Empty segments are ignored, so "/" and "" name the root.
func (t *Tree) Lookup(path string) (NodeID, error) {
	if path != "" && path[0] != '/' {
		return NoNode, fmt.Errorf("lookup %q: path must be absolute", path)
	}
	n := t.root
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if child, ok := t.childDir(n, seg); ok {
			n = child
			continue
		}
		child, ok := t.childFile(n, seg)
		if !ok {
			return NoNode, fmt.Errorf("lookup %q: %w", path, ErrNotFound)
		}
		n = child
	}
	return n, nil
}

func (t *Tree) childFile(dir NodeID, name string) (NodeID, bool) {
	for _, id := range t.arena.Children(dir) {
		p := t.arena.payload(id)
		if p.Kind == KindFile && p.Name == name {
			return id, true
		}
	}
	return NoNode, false
}
