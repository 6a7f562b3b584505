// dirtree-bench is a benchmark and stress test for the dirtree library.
// It generates synthetic sessions (a deep chain and a wide, bushy tree)
// and measures replay, aggregation, enumeration and snapshot round trips.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/phroun/dirtree"
	"github.com/phroun/dirtree/snapshot"
	"github.com/phroun/dirtree/transcript"
)

// benchResult is one timed step. Count items of Unit were processed, so the
// summary can show a per-item cost that stays comparable across tree sizes.
type benchResult struct {
	Name     string
	Duration time.Duration
	Count    int
	Unit     string // "nodes", "dirs" or "commands"
	Note     string
	Err      error
}

func (r benchResult) String() string {
	line := fmt.Sprintf("%-36s %12v", r.Name, r.Duration.Round(time.Microsecond))
	if r.Err != nil {
		return line + "  ERROR: " + r.Err.Error()
	}
	if r.Count > 0 {
		perItem := float64(r.Duration.Nanoseconds()) / float64(r.Count)
		line += fmt.Sprintf("  %9d %-8s %8.1f ns each", r.Count, r.Unit, perItem)
	}
	if r.Note != "" {
		line += "  " + r.Note
	}
	return line
}

func main() {
	flagSet := pflag.NewFlagSet("dirtree-bench", pflag.ContinueOnError)
	depth := flagSet.Int("depth", 100000, "nesting depth of the chain tree")
	dirs := flagSet.Int("dirs", 50000, "directories in the bushy tree")
	files := flagSet.Int("files", 8, "files per directory in the bushy tree")
	seed := flagSet.Uint64("seed", 1, "random seed")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	fmt.Println("dirtree Benchmark and Stress Test")
	fmt.Println("=================================")
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	var results []benchResult
	runBench := func(name string, fn func() benchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		result.Name = name
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	fmt.Printf("Chain tree (%d levels):\n", *depth)
	chain := chainSession(*depth)
	var chainTree *dirtree.Tree
	runBench("Replay chain", func() benchResult {
		r, t := benchReplay(chain)
		chainTree = t
		return r
	})
	if chainTree == nil {
		os.Exit(1)
	}
	runQueries(chainTree, runBench)

	fmt.Printf("\nBushy tree (%d dirs, %d files each):\n", *dirs, *files)
	bushy := bushySession(*dirs, *files, rand.New(rand.NewPCG(*seed, *seed)))
	runBench("Parse transcript", func() benchResult { return benchParse(bushy) })
	var bushyTree *dirtree.Tree
	runBench("Replay bushy", func() benchResult {
		r, t := benchReplay(bushy)
		bushyTree = t
		return r
	})
	if bushyTree == nil {
		os.Exit(1)
	}
	runQueries(bushyTree, runBench)
	for _, c := range []snapshot.Compression{snapshot.CompressionNone, snapshot.CompressionLZ4, snapshot.CompressionZstd} {
		runBench("Snapshot round trip ("+c.String()+")", func() benchResult { return benchSnapshot(bushyTree, c) })
	}

	fmt.Println("\n=================================")
	fmt.Println("SUMMARY")
	fmt.Println("=================================")
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %s\n", humanize.Bytes(m.HeapSys))
	fmt.Printf("Total allocations: %s\n", humanize.Bytes(m.TotalAlloc))
}

func runQueries(t *dirtree.Tree, runBench func(string, func() benchResult)) {
	runBench("SizeOf(root)", func() benchResult {
		start := time.Now()
		size := t.SizeOf(t.Root())
		return benchResult{Duration: time.Since(start), Count: t.Arena().Len(), Unit: "nodes", Note: humanize.Bytes(size)}
	})
	runBench("Sizes", func() benchResult {
		start := time.Now()
		sizes := t.Sizes()
		return benchResult{Duration: time.Since(start), Count: len(sizes), Unit: "nodes"}
	})
	runBench("SizesParallel", func() benchResult {
		start := time.Now()
		sizes := t.SizesParallel(0)
		return benchResult{Duration: time.Since(start), Count: len(sizes), Unit: "nodes"}
	})
	runBench("Directories", func() benchResult {
		start := time.Now()
		dirs := t.Directories()
		return benchResult{Duration: time.Since(start), Count: len(dirs), Unit: "dirs"}
	})
	runBench("Analyze", func() benchResult {
		start := time.Now()
		report, err := t.Analyze(dirtree.DefaultLimits())
		elapsed := time.Since(start)
		if err != nil && !errors.Is(err, dirtree.ErrNoCandidate) {
			return benchResult{Duration: elapsed, Err: err}
		}
		return benchResult{
			Duration: elapsed,
			Count:    t.Arena().Len(),
			Unit:     "nodes",
			Note:     fmt.Sprintf("sum below=%s delete=%s", humanize.Bytes(report.SumBelow), humanize.Bytes(report.CandidateSize)),
		}
	})
}

// chainSession nests depth directories, each holding one file.
func chainSession(depth int) []dirtree.Command {
	cmds := make([]dirtree.Command, 0, 4*depth+1)
	cmds = append(cmds, dirtree.ChangeDirectory{Name: "/"})
	for i := 0; i < depth; i++ {
		cmds = append(cmds,
			dirtree.ListDirectory{},
			dirtree.DirectoryEntry{Name: "d"},
			dirtree.FileEntry{Name: "f", Size: uint64(i + 1)},
			dirtree.ChangeDirectory{Name: "d"},
		)
	}
	return cmds
}

// bushySession lists dirs directories at random depths, visiting each one
// from the root with a fresh cd sequence.
func bushySession(dirs, files int, rng *rand.Rand) []dirtree.Command {
	type entry struct {
		path []string
	}
	known := []entry{{}}
	var cmds []dirtree.Command
	for i := 0; i < dirs; i++ {
		parent := known[rng.IntN(len(known))]
		cmds = append(cmds, dirtree.ChangeDirectory{Name: "/"})
		for _, name := range parent.path {
			cmds = append(cmds, dirtree.ChangeDirectory{Name: name})
		}
		name := fmt.Sprintf("d%d", i)
		cmds = append(cmds, dirtree.ListDirectory{}, dirtree.DirectoryEntry{Name: name})
		for j := 0; j < files; j++ {
			cmds = append(cmds, dirtree.FileEntry{
				Name: fmt.Sprintf("f%d.%d", i, j),
				Size: rng.Uint64N(1 << 20),
			})
		}
		child := append(append([]string(nil), parent.path...), name)
		known = append(known, entry{path: child})
	}
	return cmds
}

func benchParse(cmds []dirtree.Command) benchResult {
	var buf bytes.Buffer
	if err := transcript.Format(&buf, cmds); err != nil {
		return benchResult{Err: err}
	}
	size := buf.Len()
	start := time.Now()
	parsed, err := transcript.Parse(&buf)
	if err != nil {
		return benchResult{Duration: time.Since(start), Err: err}
	}
	return benchResult{Duration: time.Since(start), Count: len(parsed), Unit: "commands", Note: humanize.Bytes(uint64(size))}
}

func benchReplay(cmds []dirtree.Command) (benchResult, *dirtree.Tree) {
	start := time.Now()
	t := dirtree.New(dirtree.Options{})
	if err := t.Replay(cmds); err != nil {
		return benchResult{Duration: time.Since(start), Err: err}, nil
	}
	return benchResult{Duration: time.Since(start), Count: t.Arena().Len(), Unit: "nodes", Note: fmt.Sprintf("%d commands", len(cmds))}, t
}

func benchSnapshot(t *dirtree.Tree, c snapshot.Compression) benchResult {
	start := time.Now()
	data, err := snapshot.Encode(t, c)
	if err != nil {
		return benchResult{Duration: time.Since(start), Err: err}
	}
	restored, err := snapshot.Decode(data, dirtree.Options{})
	if err != nil {
		return benchResult{Duration: time.Since(start), Err: err}
	}
	elapsed := time.Since(start)
	if restored.SizeOf(restored.Root()) != t.SizeOf(t.Root()) {
		return benchResult{Duration: elapsed, Err: errors.New("size mismatch after round trip")}
	}
	return benchResult{Duration: elapsed, Count: t.Arena().Len(), Unit: "nodes", Note: humanize.Bytes(uint64(len(data)))}
}
