package dirtree

import "fmt"

// EnterRoot moves the cursor to the root. It never fails.
func (t *Tree) EnterRoot() {
	t.current = t.root
}

// EnterParent moves the cursor to the current directory's parent.
// At the root it returns ErrAtRoot, or does nothing under StayAtRoot.
func (t *Tree) EnterParent() error {
	if t.current == t.root {
		if t.parentAtRoot == StayAtRoot {
			return nil
		}
		return ErrAtRoot
	}
	parent, ok := t.arena.Parent(t.current)
	if !ok {
		// current is always reachable from root
		return fmt.Errorf("parent of %d: %w", t.current, ErrUnknownNode)
	}
	t.current = parent
	return nil
}

// EnterChild moves the cursor to the first directory named name among the
// current directory's children. On failure the cursor does not move and the
// error is a *DirectoryNotFoundError.
func (t *Tree) EnterChild(name string) error {
	child, ok := t.childDir(t.current, name)
	if !ok {
		return &DirectoryNotFoundError{Name: name}
	}
	t.current = child
	return nil
}

// Record adds p as the newest child of the current directory and returns
// its ID. The cursor does not move.
func (t *Tree) Record(p Payload) (NodeID, error) {
	if t.duplicates == RejectDuplicates {
		for _, id := range t.arena.Children(t.current) {
			existing := t.arena.payload(id)
			if existing.Kind == p.Kind && existing.Name == p.Name {
				return NoNode, fmt.Errorf("%s in %s: %w", p.Name, t.Path(t.current), ErrDuplicateEntry)
			}
		}
	}
	id := t.arena.Allocate(p)
	t.arena.Attach(t.current, id)
	return id, nil
}

// childDir finds the first directory child of dir named name.
func (t *Tree) childDir(dir NodeID, name string) (NodeID, bool) {
	for _, id := range t.arena.Children(dir) {
		p := t.arena.payload(id)
		if p.Kind == KindDirectory && p.Name == name {
			return id, true
		}
	}
	return NoNode, false
}
