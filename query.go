package dirtree

import (
	"fmt"
	"math"
)

// Limits are the parameters of the two standard size questions.
type Limits struct {
	// Threshold bounds the directories counted by SumBelow (exclusive).
	Threshold uint64

	// Capacity is the total size of the device.
	Capacity uint64

	// Required is the free space the update needs.
	Required uint64
}

// DefaultLimits returns a 100000 threshold, a 70000000 capacity and
// 30000000 required free space.
func DefaultLimits() Limits {
	return Limits{
		Threshold: 100000,
		Capacity:  70000000,
		Required:  30000000,
	}
}

// Report answers both questions for one tree.
type Report struct {
	Used          uint64 // size of the root
	Free          uint64 // Capacity - Used, floored at 0
	Needed        uint64 // Required - (Capacity - Used), floored at 0
	SumBelow      uint64
	Candidate     NodeID // smallest directory freeing Needed
	CandidateSize uint64
}

// SumBelow returns the total of every directory size strictly below
// threshold. Nested directories are counted once each, so a file may be
// counted several times.
func (t *Tree) SumBelow(threshold uint64) uint64 {
	return sumBelow(t.Directories(), t.Sizes(), threshold)
}

func sumBelow(dirs []NodeID, sizes []uint64, threshold uint64) uint64 {
	var sum uint64
	for _, d := range dirs {
		if s := sizes[d]; s < threshold {
			sum += s
		}
	}
	return sum
}

// SmallestToFree finds the smallest directory whose removal leaves at least
// required bytes free on a device of the given capacity.
// It returns ErrNoCandidate if no directory is large enough.
func (t *Tree) SmallestToFree(capacity, required uint64) (NodeID, uint64, error) {
	sizes := t.Sizes()
	return smallestToFree(t.Directories(), sizes, neededSpace(sizes[t.root], capacity, required))
}

// neededSpace is required minus the free space, floored at 0. A tree
// larger than capacity has negative free space, so the overshoot is added
// to required, saturating at math.MaxUint64.
func neededSpace(used, capacity, required uint64) uint64 {
	if used <= capacity {
		free := capacity - used
		if free >= required {
			return 0
		}
		return required - free
	}
	over := used - capacity
	if required > math.MaxUint64-over {
		return math.MaxUint64
	}
	return required + over
}

func smallestToFree(dirs []NodeID, sizes []uint64, needed uint64) (NodeID, uint64, error) {
	best, bestSize, found := NoNode, uint64(0), false
	for _, d := range dirs {
		s := sizes[d]
		if s < needed {
			continue
		}
		if !found || s < bestSize {
			best, bestSize, found = d, s, true
		}
	}
	if !found {
		return NoNode, 0, fmt.Errorf("need %d: %w", needed, ErrNoCandidate)
	}
	return best, bestSize, nil
}

// Analyze computes both answers with one size table.
func (t *Tree) Analyze(l Limits) (Report, error) {
	sizes := t.Sizes()
	dirs := t.Directories()
	used := sizes[t.root]

	r := Report{
		Used:     used,
		Needed:   neededSpace(used, l.Capacity, l.Required),
		SumBelow: sumBelow(dirs, sizes, l.Threshold),
	}
	if l.Capacity > used {
		r.Free = l.Capacity - used
	}
	id, size, err := smallestToFree(dirs, sizes, r.Needed)
	if err != nil {
		return r, err
	}
	r.Candidate = id
	r.CandidateSize = size
	return r, nil
}
