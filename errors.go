// Package dirtree rebuilds a directory tree from a recorded shell session
// and answers size queries over it. Nodes live in an Arena and are addressed
// by NodeID; a Tree carries the current working directory as explicit state.
package dirtree

import (
	"errors"
	"fmt"
)

// Arena errors
var (
	// ErrUnknownNode indicates that a NodeID does not belong to the arena.
	// In correct usage this never happens.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNotADirectory indicates that an operation expected a directory node.
	ErrNotADirectory = errors.New("not a directory")
)

// Navigation errors
var (
	// ErrDirectoryNotFound indicates that the current directory has no
	// directory child with the requested name.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrAtRoot indicates a move to the parent while already at the root.
	ErrAtRoot = errors.New("already at root")

	// ErrDuplicateEntry indicates that the current directory already holds
	// an entry with the same kind and name. Only returned under RejectDuplicates.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Command errors
var (
	// ErrInvalidCommand indicates a nil or unrecognized command.
	ErrInvalidCommand = errors.New("invalid command")
)

// Query errors
var (
	// ErrNotFound indicates that a path or pattern matched no node.
	ErrNotFound = errors.New("not found")

	// ErrNoCandidate indicates that no directory is large enough to free the
	// requested space.
	ErrNoCandidate = errors.New("no directory frees enough space")
)

// DirectoryNotFoundError reports the name that EnterChild could not resolve.
type DirectoryNotFoundError struct {
	Name string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %q", e.Name)
}

// Is reports whether target is ErrDirectoryNotFound.
func (e *DirectoryNotFoundError) Is(target error) bool {
	return target == ErrDirectoryNotFound
}

// CommandError wraps a failure while replaying a command stream.
type CommandError struct {
	Index   int // zero-based position in the stream
	Command Command
	Err     error
}

func (e *CommandError) Error() string {
	if e.Command == nil {
		return fmt.Sprintf("command %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
