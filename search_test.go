package dirtree

import (
	"errors"
	"testing"
)

func TestFind(t *testing.T) {
	tree := buildExample(t)

	tests := []struct {
		name    string
		pattern string
		opts    FindOptions
		want    []NodeID
	}{
		{"extension", "*.*", FindOptions{}, []NodeID{8, 2, 3, 11, 12}},
		{"prefix", "d*", FindOptions{}, []NodeID{4, 11, 12}},
		{"dirs only", "d*", FindOptions{Kind: KindDirectory, OnlyKind: true}, []NodeID{4}},
		{"files only", "?", FindOptions{Kind: KindFile, OnlyKind: true}, []NodeID{9, 6, 7, 10, 13}},
		{"single char", "?", FindOptions{}, []NodeID{1, 5, 9, 6, 7, 4, 10, 13}},
		{"min size prunes", "*", FindOptions{MinSize: 1000000}, []NodeID{2, 3, 4, 10, 11, 12, 13}},
		{"exact", "h.lst", FindOptions{}, []NodeID{8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tree.Find(tt.pattern, tt.opts)
			if err != nil {
				t.Fatalf("Find(%q) failed: %v", tt.pattern, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Find(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Find(%q)[%d] = %d, want %d", tt.pattern, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindNeverMatchesRoot(t *testing.T) {
	tree := New(Options{})
	if _, err := tree.Find("/", FindOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(/) error = %v, want ErrNotFound", err)
	}
	if _, err := tree.Find("*", FindOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(*) on empty tree error = %v, want ErrNotFound", err)
	}
}

func TestFindErrors(t *testing.T) {
	tree := buildExample(t)

	if _, err := tree.Find("zzz", FindOptions{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(zzz) error = %v, want ErrNotFound", err)
	}
	if _, err := tree.Find("[", FindOptions{}); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Find([) error = %v, want a pattern error", err)
	}
}
