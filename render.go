package dirtree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// RenderOptions controls Render output.
type RenderOptions struct {
	// Indent is repeated once per depth level. Defaults to two spaces.
	Indent string

	// HumanSizes prints sizes as "15 MB" instead of raw byte counts.
	HumanSizes bool

	// DirSizes appends the subtree size to each directory line.
	DirSizes bool

	// MaxDepth stops descending below this depth when positive.
	MaxDepth int
}

// Render writes an indented listing of the tree:
//
//	- / (dir)
//	  - a (dir)
//	    - e (dir)
//	      - i (file, size=584)
//	  - b.txt (file, size=14848514)
func (t *Tree) Render(w io.Writer, opts RenderOptions) error {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	var sizes []uint64
	if opts.DirSizes {
		sizes = t.Sizes()
	}
	format := func(n uint64) string {
		if opts.HumanSizes {
			return humanize.Bytes(n)
		}
		return fmt.Sprintf("%d", n)
	}

	bw := bufio.NewWriter(w)
	t.Walk(func(id NodeID, depth int) bool {
		p := t.arena.payload(id)
		bw.WriteString(strings.Repeat(indent, depth))
		bw.WriteString("- ")
		bw.WriteString(p.Name)
		if p.IsDir() {
			if sizes != nil {
				fmt.Fprintf(bw, " (dir, size=%s)\n", format(sizes[id]))
			} else {
				bw.WriteString(" (dir)\n")
			}
		} else {
			fmt.Fprintf(bw, " (file, size=%s)\n", format(p.Size))
		}
		return opts.MaxDepth <= 0 || depth < opts.MaxDepth
	})
	return bw.Flush()
}
