package dirtree

import (
	"fmt"
	"path"
)

// FindOptions narrows Find.
type FindOptions struct {
	// Kind restricts matches to one kind when OnlyKind is set.
	Kind     Kind
	OnlyKind bool

	// MinSize skips nodes whose subtree size is below it.
	MinSize uint64
}

// Find returns every node whose name matches pattern (path.Match syntax),
// in depth-first pre-order. The root is never matched.
// It returns ErrNotFound if nothing matches.
func (t *Tree) Find(pattern string, opts FindOptions) ([]NodeID, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("find %q: %w", pattern, err)
	}

	var sizes []uint64
	if opts.MinSize > 0 {
		sizes = t.Sizes()
	}

	var matches []NodeID
	t.Walk(func(id NodeID, depth int) bool {
		if depth == 0 {
			return true
		}
		p := t.arena.payload(id)
		if opts.OnlyKind && p.Kind != opts.Kind {
			return true
		}
		if sizes != nil && sizes[id] < opts.MinSize {
			// nothing below can be larger
			return false
		}
		if ok, _ := path.Match(pattern, p.Name); ok {
			matches = append(matches, id)
		}
		return true
	})
	if len(matches) == 0 {
		return nil, fmt.Errorf("find %q: %w", pattern, ErrNotFound)
	}
	return matches, nil
}
