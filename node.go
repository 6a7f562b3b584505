package dirtree

import "fmt"

// NodeID uniquely identifies a node within an Arena.
// IDs are issued in allocation order and never reused.
type NodeID uint64

// NoNode is never issued by an Arena.
const NoNode = ^NodeID(0)

// Kind distinguishes the two node payloads.
type Kind uint8

const (
	// KindDirectory marks a directory. Directories may have children.
	KindDirectory Kind = iota

	// KindFile marks a file. Files carry a size and never have children.
	KindFile
)

// String returns "dir" or "file".
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "dir"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Payload is the data a node carries: a directory name, or a file name and size.
type Payload struct {
	Kind Kind
	Name string
	Size uint64 // zero for directories
}

// Directory returns a directory payload.
func Directory(name string) Payload {
	return Payload{Kind: KindDirectory, Name: name}
}

// File returns a file payload.
func File(name string, size uint64) Payload {
	return Payload{Kind: KindFile, Name: name, Size: size}
}

// IsDir returns true for directory payloads.
func (p Payload) IsDir() bool {
	return p.Kind == KindDirectory
}

func (p Payload) String() string {
	if p.Kind == KindFile {
		return fmt.Sprintf("%s (file, size=%d)", p.Name, p.Size)
	}
	return fmt.Sprintf("%s (dir)", p.Name)
}

// node is one arena slot.
type node struct {
	payload   Payload
	parent    NodeID
	hasParent bool

	// children in insertion order
	children []NodeID
}
