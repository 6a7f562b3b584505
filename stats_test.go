package dirtree

import "testing"

func TestStats(t *testing.T) {
	got := buildExample(t).Stats()
	want := Stats{
		Nodes:       14,
		Directories: 4,
		Files:       10,
		MaxDepth:    3,
		TotalSize:   48381165,
		Allocated:   14,
	}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestStatsEmpty(t *testing.T) {
	got := New(Options{}).Stats()
	want := Stats{Nodes: 1, Directories: 1, Allocated: 1}
	if got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestStatsCountsOnlyReachable(t *testing.T) {
	tree := buildExample(t)
	tree.Arena().Allocate(File("orphan", 1000))

	s := tree.Stats()
	if s.Nodes != 14 || s.Allocated != 15 {
		t.Errorf("Nodes, Allocated = %d, %d, want 14, 15", s.Nodes, s.Allocated)
	}
	if s.TotalSize != 48381165 {
		t.Errorf("TotalSize = %d, want 48381165", s.TotalSize)
	}
}
