// Package transcript reads and writes recorded shell sessions made of
// `$ cd` and `$ ls` commands and their output.
//
// One item per line:
//
//	$ cd <dir>      change directory ("/", ".." or a name)
//	$ ls            list the current directory
//	dir <name>      a directory in ls output
//	<size> <name>   a file in ls output
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phroun/dirtree"
)

// maxLine bounds a single transcript line.
const maxLine = 1024 * 1024

// SyntaxError reports a line that is not part of the transcript grammar.
type SyntaxError struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads a whole transcript. Blank lines are skipped and a trailing
// carriage return is ignored.
func Parse(r io.Reader) ([]dirtree.Command, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var cmds []dirtree.Command
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			if se, ok := err.(*SyntaxError); ok {
				se.Line = lineNum
			}
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return cmds, nil
}

// ParseString parses a transcript held in memory.
func ParseString(s string) ([]dirtree.Command, error) {
	return Parse(strings.NewReader(s))
}

// ParseLine parses a single line. The returned *SyntaxError has Line 0.
func ParseLine(line string) (dirtree.Command, error) {
	if rest, ok := strings.CutPrefix(line, "$ "); ok {
		return parsePrompt(line, strings.TrimSpace(rest))
	}
	if name, ok := strings.CutPrefix(line, "dir "); ok {
		if name == "" {
			return nil, &SyntaxError{Text: line, Reason: "missing directory name"}
		}
		return dirtree.DirectoryEntry{Name: name}, nil
	}

	sizeText, name, ok := strings.Cut(line, " ")
	if !ok || name == "" {
		return nil, &SyntaxError{Text: line, Reason: "unrecognized line"}
	}
	size, err := strconv.ParseUint(sizeText, 10, 64)
	if err != nil {
		return nil, &SyntaxError{Text: line, Reason: "invalid file size"}
	}
	return dirtree.FileEntry{Name: name, Size: size}, nil
}

func parsePrompt(line, rest string) (dirtree.Command, error) {
	switch rest {
	case "ls":
		return dirtree.ListDirectory{}, nil
	case "cd":
		return nil, &SyntaxError{Text: line, Reason: "missing cd target"}
	}
	if dir, ok := strings.CutPrefix(rest, "cd "); ok {
		return dirtree.ChangeDirectory{Name: strings.TrimSpace(dir)}, nil
	}
	return nil, &SyntaxError{Text: line, Reason: "unknown command"}
}

// Format writes cmds back in transcript form, one per line.
func Format(w io.Writer, cmds []dirtree.Command) error {
	bw := bufio.NewWriter(w)
	for _, cmd := range cmds {
		var err error
		switch c := cmd.(type) {
		case dirtree.ChangeDirectory, dirtree.ListDirectory:
			_, err = fmt.Fprintf(bw, "$ %s\n", c)
		case dirtree.FileEntry, dirtree.DirectoryEntry:
			_, err = fmt.Fprintf(bw, "%s\n", c)
		default:
			err = fmt.Errorf("format %T: %w", cmd, dirtree.ErrInvalidCommand)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
