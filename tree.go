package dirtree

import (
	"runtime"
	"sync"
)

// frame is one pending node of an explicit-stack traversal.
type frame struct {
	id    NodeID
	depth int
}

// SizeOf returns the total size of the subtree at id: a file's own size, or
// the sum of every file below a directory. Unknown IDs have size 0.
//
// The traversal uses an explicit stack, so arbitrarily deep trees are safe.
func (t *Tree) SizeOf(id NodeID) uint64 {
	a := t.arena
	if !a.Contains(id) {
		return 0
	}
	var total uint64
	stack := []NodeID{id}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := a.payload(n)
		if p.Kind == KindFile {
			total += p.Size
			continue
		}
		stack = append(stack, a.nodes[n].children...)
	}
	return total
}

// Sizes returns the subtree size of every node, indexed by NodeID, in a
// single pass. Nodes not reachable from the root have size 0.
func (t *Tree) Sizes() []uint64 {
	sizes := make([]uint64, t.arena.Len())
	t.accumulate(t.root, sizes)
	return sizes
}

// SizesParallel computes the same table as Sizes, handing each subtree
// under the root to a pool of workers. workers <= 0 uses GOMAXPROCS.
//
// Sibling subtrees write disjoint entries of the table, so the workers
// share it without locking. The tree must not be mutated meanwhile.
func (t *Tree) SizesParallel(workers int) []uint64 {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sizes := make([]uint64, t.arena.Len())
	children := t.arena.Children(t.root)
	if workers == 1 || len(children) < 2 {
		t.accumulate(t.root, sizes)
		return sizes
	}
	if workers > len(children) {
		workers = len(children)
	}

	jobs := make(chan NodeID)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				t.accumulate(id, sizes)
			}
		}()
	}
	for _, id := range children {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	var total uint64
	for _, id := range children {
		total += sizes[id]
	}
	sizes[t.root] = total
	return sizes
}

// accumulate fills sizes for the subtree at top. It visits the subtree in
// pre-order, then folds each node into its parent in reverse, so every
// node is complete before its parent reads it.
func (t *Tree) accumulate(top NodeID, sizes []uint64) {
	a := t.arena
	order := make([]NodeID, 0, 64)
	stack := []NodeID{top}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		stack = append(stack, a.nodes[n].children...)
	}

	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		nd := &a.nodes[n]
		if nd.payload.Kind == KindFile {
			sizes[n] = nd.payload.Size
		}
		if n != top && nd.hasParent {
			sizes[nd.parent] += sizes[n]
		}
	}
}

// Directories returns every directory in the tree, root included, each
// exactly once, in depth-first pre-order. Each call starts a fresh
// traversal from the root.
func (t *Tree) Directories() []NodeID {
	var dirs []NodeID
	t.Walk(func(id NodeID, _ int) bool {
		if t.arena.payload(id).IsDir() {
			dirs = append(dirs, id)
		}
		return true
	})
	return dirs
}

// Walk visits every node reachable from the root in depth-first pre-order,
// children in insertion order. depth is 0 for the root. Returning false
// from fn skips the node's descendants.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	t.walkFrom(t.root, fn)
}

func (t *Tree) walkFrom(top NodeID, fn func(id NodeID, depth int) bool) {
	a := t.arena
	if !a.Contains(top) {
		return
	}
	stack := []frame{{id: top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(f.id, f.depth) {
			continue
		}
		children := a.nodes[f.id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: children[i], depth: f.depth + 1})
		}
	}
}
