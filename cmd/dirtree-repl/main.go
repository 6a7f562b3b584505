// dirtree-repl drives a dirtree cursor interactively. Lines may be REPL
// commands or pasted transcript lines ("$ cd a", "dir e", "584 i").
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/phroun/dirtree"
	"github.com/phroun/dirtree/config"
	"github.com/phroun/dirtree/snapshot"
	"github.com/phroun/dirtree/transcript"
)

// REPL holds the state of the interactive session
type REPL struct {
	cfg     *config.Config
	opts    dirtree.Options
	tree    *dirtree.Tree
	history []dirtree.Command
	reader  *bufio.Reader
	out     io.Writer
	prompt  bool
}

func main() {
	var configPath string
	flagSet := pflag.NewFlagSet("dirtree-repl", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML or JSONC config file (default: $"+config.EnvVar+")")
	quiet := flagSet.BoolP("quiet", "q", false, "no banner or prompt (for piped input)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logLevel := slog.LevelWarn
	if os.Getenv("DIRTREE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	repl := newREPL(cfg, logger, os.Stdin, os.Stdout)
	repl.prompt = !*quiet
	if repl.prompt {
		fmt.Println("dirtree REPL - type 'help' for commands, 'quit' to exit")
		fmt.Println()
	}
	repl.Run()
}

func newREPL(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) *REPL {
	opts := cfg.TreeOptions()
	opts.Logger = logger
	return &REPL{
		cfg:    cfg,
		opts:   opts,
		tree:   dirtree.New(opts),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run reads lines until EOF or quit.
func (r *REPL) Run() {
	for {
		if r.prompt {
			fmt.Fprintf(r.out, "%s> ", r.tree.Path(r.tree.Current()))
		}
		input, err := r.reader.ReadString('\n')
		if input = strings.TrimSpace(input); input != "" {
			if !r.handleCommand(input) {
				return
			}
		}
		if err != nil {
			if r.prompt {
				fmt.Fprintln(r.out)
			}
			return
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	// Transcript lines are applied as commands.
	if strings.HasPrefix(input, "$ ") || isEntryLine(input) {
		cmd, err := transcript.ParseLine(input)
		if err != nil {
			r.printf("Parse error: %v\n", err)
			return true
		}
		r.apply(cmd)
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		return false

	case "new":
		r.tree = dirtree.New(r.opts)
		r.history = nil
		r.printf("New tree\n")

	case "cd":
		if len(args) != 1 {
			r.printf("Usage: cd <dir|/|..>\n")
			return true
		}
		r.apply(dirtree.ChangeDirectory{Name: args[0]})

	case "mkdir":
		if len(args) != 1 {
			r.printf("Usage: mkdir <name>\n")
			return true
		}
		r.apply(dirtree.DirectoryEntry{Name: args[0]})

	case "touch":
		r.cmdTouch(args)

	case "pwd":
		r.printf("%s\n", r.tree.Path(r.tree.Current()))

	case "ls":
		r.cmdList(args)

	case "du":
		r.cmdDiskUsage(args)

	case "dirs":
		r.cmdDirs()

	case "tree":
		r.cmdTree(args)

	case "find":
		r.cmdFind(args)

	case "stats":
		r.cmdStats()

	case "report":
		r.cmdReport()

	case "history":
		if err := transcript.Format(r.out, r.history); err != nil {
			r.printf("Error: %v\n", err)
		}

	case "save":
		r.cmdSave(args)

	case "load":
		r.cmdLoad(args)

	default:
		r.printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

// isEntryLine reports whether input looks like ls output ("dir x", "123 x").
func isEntryLine(input string) bool {
	if strings.HasPrefix(input, "dir ") {
		return true
	}
	first, _, ok := strings.Cut(input, " ")
	if !ok {
		return false
	}
	_, err := strconv.ParseUint(first, 10, 64)
	return err == nil
}

func (r *REPL) apply(cmd dirtree.Command) {
	if err := r.tree.Apply(cmd); err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.history = append(r.history, cmd)
}

func (r *REPL) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

NAVIGATION:
  cd <dir|/|..>           Change the current directory
  pwd                     Show the current directory

RECORDING:
  mkdir <name>            Record a directory in the current directory
  touch <name> <size>     Record a file in the current directory
  $ cd <dir>, $ ls        Transcript lines are accepted as typed
  dir <name>, <size> <n>  ls output lines are recorded as typed

INSPECTION:
  ls [path]               List a directory (default: current)
  du [path]               Show a subtree size (default: current)
  dirs                    List every directory with its size
  tree [depth]            Show the tree
  find <pattern>          Find nodes by name (glob)
  stats                   Show node counts and depth
  report                  Answer the size questions with configured limits
  history                 Print the session as a transcript

SNAPSHOTS:
  save <file>             Save the tree
  load <file>             Load a tree (cursor returns to /)

OTHER:
  new                     Start an empty tree
  help                    Show this help message
  quit, exit              Exit the REPL
`
	r.printf("%s\n", help)
}

func (r *REPL) cmdTouch(args []string) {
	if len(args) != 2 {
		r.printf("Usage: touch <name> <size>\n")
		return
	}
	size, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		r.printf("Invalid size: %v\n", err)
		return
	}
	r.apply(dirtree.FileEntry{Name: args[0], Size: size})
}

// resolve returns the node named by an optional path argument.
func (r *REPL) resolve(args []string) (dirtree.NodeID, bool) {
	if len(args) == 0 {
		return r.tree.Current(), true
	}
	p := args[0]
	if !strings.HasPrefix(p, "/") {
		p = path.Join(r.tree.Path(r.tree.Current()), p)
	}
	id, err := r.tree.Lookup(p)
	if err != nil {
		r.printf("Error: %v\n", err)
		return 0, false
	}
	return id, true
}

func (r *REPL) cmdList(args []string) {
	id, ok := r.resolve(args)
	if !ok {
		return
	}
	a := r.tree.Arena()
	for _, child := range a.Children(id) {
		p, _ := a.Payload(child)
		if p.IsDir() {
			r.printf("dir %s\n", p.Name)
		} else {
			r.printf("%d %s\n", p.Size, p.Name)
		}
	}
}

func (r *REPL) cmdDiskUsage(args []string) {
	id, ok := r.resolve(args)
	if !ok {
		return
	}
	size := r.tree.SizeOf(id)
	r.printf("%d\t(%s)\t%s\n", size, humanize.Bytes(size), r.tree.Path(id))
}

func (r *REPL) cmdDirs() {
	sizes := r.tree.Sizes()
	for _, d := range r.tree.Directories() {
		r.printf("%12d  %s\n", sizes[d], r.tree.Path(d))
	}
}

func (r *REPL) cmdTree(args []string) {
	opts := dirtree.RenderOptions{DirSizes: true}
	if len(args) > 0 {
		depth, err := strconv.Atoi(args[0])
		if err != nil {
			r.printf("Invalid depth: %v\n", err)
			return
		}
		opts.MaxDepth = depth
	}
	if err := r.tree.Render(r.out, opts); err != nil {
		r.printf("Error: %v\n", err)
	}
}

func (r *REPL) cmdFind(args []string) {
	if len(args) != 1 {
		r.printf("Usage: find <pattern>\n")
		return
	}
	ids, err := r.tree.Find(args[0], dirtree.FindOptions{})
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	for _, id := range ids {
		r.printf("%s\n", r.tree.Path(id))
	}
}

func (r *REPL) cmdStats() {
	s := r.tree.Stats()
	r.printf("Tree Stats:\n")
	r.printf("  Nodes:       %d (allocated: %d)\n", s.Nodes, s.Allocated)
	r.printf("  Directories: %d\n", s.Directories)
	r.printf("  Files:       %d\n", s.Files)
	r.printf("  Max depth:   %d\n", s.MaxDepth)
	r.printf("  Total size:  %d (%s)\n", s.TotalSize, humanize.Bytes(s.TotalSize))
}

func (r *REPL) cmdReport() {
	limits := r.cfg.TreeLimits()
	report, err := r.tree.Analyze(limits)
	r.printf("Used: %d of %d\n", report.Used, limits.Capacity)
	r.printf("Sum of directories below %d: %d\n", limits.Threshold, report.SumBelow)
	if errors.Is(err, dirtree.ErrNoCandidate) {
		r.printf("No directory frees %d\n", report.Needed)
		return
	}
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.printf("Delete %s to free %d\n", r.tree.Path(report.Candidate), report.CandidateSize)
}

func (r *REPL) cmdSave(args []string) {
	if len(args) != 1 {
		r.printf("Usage: save <file>\n")
		return
	}
	compression, err := snapshot.ParseCompression(r.cfg.Snapshot.Compression)
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	store := snapshot.NewFileStore(filepath.Dir(args[0]))
	if err := snapshot.Save(store, filepath.Base(args[0]), r.tree, compression); err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.printf("Saved %d nodes to %s\n", r.tree.Arena().Len(), args[0])
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) != 1 {
		r.printf("Usage: load <file>\n")
		return
	}
	store := snapshot.NewFileStore(filepath.Dir(args[0]))
	tree, err := snapshot.Restore(store, filepath.Base(args[0]), r.opts)
	if err != nil {
		r.printf("Error: %v\n", err)
		return
	}
	r.tree = tree
	r.history = nil
	r.printf("Loaded %d nodes from %s\n", tree.Arena().Len(), args[0])
}
