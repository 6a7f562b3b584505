package dirtree

import (
	"fmt"
	"io"
	"log/slog"
)

// RootName is the name of the root directory created by New.
const RootName = "/"

// ParentPolicy decides what EnterParent does at the root.
type ParentPolicy int

const (
	// ErrorAtRoot makes EnterParent return ErrAtRoot at the root.
	ErrorAtRoot ParentPolicy = iota

	// StayAtRoot makes EnterParent a no-op at the root, like `cd ..` in a shell.
	StayAtRoot
)

// DuplicatePolicy decides what Record does with a repeated entry.
type DuplicatePolicy int

const (
	// AllowDuplicates records a repeated entry as a new sibling.
	AllowDuplicates DuplicatePolicy = iota

	// RejectDuplicates makes Record return ErrDuplicateEntry when the current
	// directory already holds an entry of the same kind and name.
	RejectDuplicates
)

// Options configures a Tree. The zero value is the default behavior.
type Options struct {
	ParentAtRoot ParentPolicy
	Duplicates   DuplicatePolicy

	// Logger receives a debug record per applied command. nil discards.
	Logger *slog.Logger
}

// Tree is an Arena plus a cursor: the fixed root and the current
// working directory. current always refers to a directory.
//
// Construction (Enter*, Record, Apply, Replay) is single-threaded.
// Queries only read the arena and may run concurrently once
// construction is finished.
type Tree struct {
	arena   *Arena
	root    NodeID
	current NodeID

	parentAtRoot ParentPolicy
	duplicates   DuplicatePolicy
	logger       *slog.Logger
}

// New creates a tree holding only the root directory "/", with the
// cursor at the root.
func New(opts Options) *Tree {
	arena := NewArena()
	root := arena.Allocate(Directory(RootName))
	return newTree(arena, root, opts)
}

// Resume wraps an arena that was built elsewhere, such as one decoded
// from a snapshot. root must be a parentless directory in arena.
func Resume(arena *Arena, root NodeID, opts Options) (*Tree, error) {
	p, err := arena.Payload(root)
	if err != nil {
		return nil, err
	}
	if !p.IsDir() {
		return nil, fmt.Errorf("root %d: %w", root, ErrNotADirectory)
	}
	if parent, ok := arena.Parent(root); ok {
		return nil, fmt.Errorf("root %d has parent %d", root, parent)
	}
	return newTree(arena, root, opts), nil
}

func newTree(arena *Arena, root NodeID, opts Options) *Tree {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tree{
		arena:        arena,
		root:         root,
		current:      root,
		parentAtRoot: opts.ParentAtRoot,
		duplicates:   opts.Duplicates,
		logger:       logger,
	}
}

// Arena returns the arena backing the tree.
func (t *Tree) Arena() *Arena {
	return t.arena
}

// Root returns the root directory's ID.
func (t *Tree) Root() NodeID {
	return t.root
}

// Current returns the current working directory's ID.
func (t *Tree) Current() NodeID {
	return t.current
}
