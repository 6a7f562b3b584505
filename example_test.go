package dirtree

import "testing"

// exampleCommands is the classic session: / holds a, b.txt, c.dat and d;
// a holds e, f, g and h.lst; e holds i; d holds four files.
func exampleCommands() []Command {
	return []Command{
		ChangeDirectory{Name: "/"},
		ListDirectory{},
		DirectoryEntry{Name: "a"},
		FileEntry{Name: "b.txt", Size: 14848514},
		FileEntry{Name: "c.dat", Size: 8504156},
		DirectoryEntry{Name: "d"},
		ChangeDirectory{Name: "a"},
		ListDirectory{},
		DirectoryEntry{Name: "e"},
		FileEntry{Name: "f", Size: 29116},
		FileEntry{Name: "g", Size: 2557},
		FileEntry{Name: "h.lst", Size: 62596},
		ChangeDirectory{Name: "e"},
		ListDirectory{},
		FileEntry{Name: "i", Size: 584},
		ChangeDirectory{Name: ".."},
		ChangeDirectory{Name: ".."},
		ChangeDirectory{Name: "d"},
		ListDirectory{},
		FileEntry{Name: "j", Size: 4060174},
		FileEntry{Name: "d.log", Size: 8033020},
		FileEntry{Name: "d.ext", Size: 5626152},
		FileEntry{Name: "k", Size: 7214296},
	}
}

// buildExample replays exampleCommands into a new tree.
func buildExample(t *testing.T) *Tree {
	t.Helper()
	tree := New(Options{})
	if err := tree.Replay(exampleCommands()); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	return tree
}

// mustLookup resolves path or fails the test.
func mustLookup(t *testing.T, tree *Tree, path string) NodeID {
	t.Helper()
	id, err := tree.Lookup(path)
	if err != nil {
		t.Fatalf("Lookup(%q) failed: %v", path, err)
	}
	return id
}
