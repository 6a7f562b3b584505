package dirtree

// Stats summarizes a tree.
type Stats struct {
	Nodes       int    // nodes reachable from the root, root included
	Directories int    // directories, root included
	Files       int    // files
	MaxDepth    int    // deepest node, root is 0
	TotalSize   uint64 // size of the root
	Allocated   int    // nodes in the arena, reachable or not
}

// Stats walks the tree once and returns its counts.
func (t *Tree) Stats() Stats {
	s := Stats{Allocated: t.arena.Len()}
	t.Walk(func(id NodeID, depth int) bool {
		s.Nodes++
		p := t.arena.payload(id)
		if p.IsDir() {
			s.Directories++
		} else {
			s.Files++
			s.TotalSize += p.Size
		}
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		return true
	})
	return s
}
