package dirtree

import (
	"errors"
	"math"
	"testing"
)

func TestSumBelow(t *testing.T) {
	tree := buildExample(t)

	tests := []struct {
		threshold uint64
		want      uint64
	}{
		{100000, 95437}, // a + e
		{584, 0},        // strict bound
		{585, 584},      // e only
		{1 << 40, 48381165 + 24933642 + 94853 + 584},
		{0, 0},
	}

	for _, tt := range tests {
		if got := tree.SumBelow(tt.threshold); got != tt.want {
			t.Errorf("SumBelow(%d) = %d, want %d", tt.threshold, got, tt.want)
		}
	}
}

func TestSmallestToFree(t *testing.T) {
	tree := buildExample(t)

	id, size, err := tree.SmallestToFree(70000000, 30000000)
	if err != nil {
		t.Fatalf("SmallestToFree failed: %v", err)
	}
	if got := tree.Path(id); got != "/d" {
		t.Errorf("candidate = %s, want /d", got)
	}
	if size != 24933642 {
		t.Errorf("size = %d, want 24933642", size)
	}
}

func TestSmallestToFreeAlreadyEnoughSpace(t *testing.T) {
	tree := buildExample(t)

	// 100000000 - 48381165 leaves more than required free, so nothing
	// needs deleting and every directory qualifies.
	id, size, err := tree.SmallestToFree(100000000, 30000000)
	if err != nil {
		t.Fatalf("SmallestToFree failed: %v", err)
	}
	if got := tree.Path(id); got != "/a/e" {
		t.Errorf("candidate = %s, want /a/e", got)
	}
	if size != 584 {
		t.Errorf("size = %d, want 584", size)
	}
}

func TestSmallestToFreeNoCandidate(t *testing.T) {
	tree := buildExample(t)

	id, _, err := tree.SmallestToFree(48381165, 48381166)
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("error = %v, want ErrNoCandidate", err)
	}
	if id != NoNode {
		t.Errorf("id = %d, want NoNode", id)
	}
}

func TestSmallestToFreeOverCapacity(t *testing.T) {
	tree := New(Options{})
	tree.Record(Directory("small"))
	tree.Record(Directory("big"))
	for _, d := range []struct {
		name string
		size uint64
	}{{"small", 40}, {"big", 110}} {
		if err := tree.EnterChild(d.name); err != nil {
			t.Fatalf("EnterChild(%q) failed: %v", d.name, err)
		}
		tree.Record(File("data", d.size))
		tree.EnterRoot()
	}

	// Used is 150 on a 100 device, so 30 free needs 80 deleted.
	id, size, err := tree.SmallestToFree(100, 30)
	if err != nil {
		t.Fatalf("SmallestToFree failed: %v", err)
	}
	if got := tree.Path(id); got != "/big" {
		t.Errorf("candidate = %q, want /big", got)
	}
	if size != 110 {
		t.Errorf("size = %d, want 110", size)
	}
}

func TestNeededSpace(t *testing.T) {
	tests := []struct {
		name                     string
		used, capacity, required uint64
		want                     uint64
	}{
		{"example", 48381165, 70000000, 30000000, 8381165},
		{"enough free", 10, 100, 50, 0},
		{"exactly enough", 50, 100, 50, 0},
		{"over capacity", 200, 100, 50, 150},
		{"over capacity no required", 150, 100, 0, 50},
		{"zero required", 10, 100, 0, 0},
		{"saturates", math.MaxUint64, 0, 1, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := neededSpace(tt.used, tt.capacity, tt.required); got != tt.want {
				t.Errorf("neededSpace(%d, %d, %d) = %d, want %d", tt.used, tt.capacity, tt.required, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	tree := buildExample(t)

	r, err := tree.Analyze(DefaultLimits())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	want := Report{
		Used:          48381165,
		Free:          21618835,
		Needed:        8381165,
		SumBelow:      95437,
		Candidate:     4,
		CandidateSize: 24933642,
	}
	if r != want {
		t.Errorf("Analyze = %+v, want %+v", r, want)
	}
}

func TestAnalyzeNoCandidateKeepsTotals(t *testing.T) {
	tree := buildExample(t)

	r, err := tree.Analyze(Limits{Threshold: 100000, Capacity: 1000, Required: 50000000})
	if !errors.Is(err, ErrNoCandidate) {
		t.Fatalf("error = %v, want ErrNoCandidate", err)
	}
	if r.Used != 48381165 || r.Free != 0 || r.Needed != 98380165 || r.SumBelow != 95437 {
		t.Errorf("Report = %+v", r)
	}
}

func TestAnalyzeEmptyTree(t *testing.T) {
	tree := New(Options{})

	r, err := tree.Analyze(DefaultLimits())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if r.Used != 0 || r.Needed != 0 || r.Candidate != tree.Root() {
		t.Errorf("Report = %+v", r)
	}
	// The empty root is below the threshold but contributes nothing.
	if r.SumBelow != 0 {
		t.Errorf("SumBelow = %d, want 0", r.SumBelow)
	}
}
