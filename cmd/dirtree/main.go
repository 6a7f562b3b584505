// dirtree rebuilds a directory tree from a recorded `cd`/`ls` session and
// reports directory sizes.
//
// Usage:
//
//	dirtree [flags] [transcript]
//	dirtree --load snapshot.dts [flags]
//
// With no transcript argument, or "-", the session is read from stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/phroun/dirtree"
	"github.com/phroun/dirtree/config"
	"github.com/phroun/dirtree/snapshot"
	"github.com/phroun/dirtree/transcript"
)

// version can be set with -ldflags "-X main.version=1.0.0".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// usageError marks failures caused by bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := runCommand(args, stdin, stdout, stderr)
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var ue usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

type options struct {
	configPath   string
	threshold    uint64
	capacity     uint64
	required     uint64
	parentAtRoot string
	duplicates   string
	snapshotPath string
	compression  string
	loadPath     string
	showTree     bool
	human        bool
	logLevel     string
}

func runCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var o options
	flagSet := pflag.NewFlagSet("dirtree", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&o.configPath, "config", "", "YAML or JSONC config file (default: $"+config.EnvVar+")")
	flagSet.Uint64Var(&o.threshold, "threshold", 0, "count directories smaller than this")
	flagSet.Uint64Var(&o.capacity, "capacity", 0, "total device capacity")
	flagSet.Uint64Var(&o.required, "required", 0, "free space required")
	flagSet.StringVar(&o.parentAtRoot, "parent-at-root", "", `"cd .." at the root: error or stay`)
	flagSet.StringVar(&o.duplicates, "duplicates", "", "repeated entries: allow or reject")
	flagSet.StringVar(&o.snapshotPath, "snapshot", "", "save the built tree to this file")
	flagSet.StringVar(&o.compression, "compression", "", "snapshot compression: none, lz4 or zstd")
	flagSet.StringVar(&o.loadPath, "load", "", "read the tree from a snapshot instead of a transcript")
	flagSet.BoolVar(&o.showTree, "tree", false, "print the tree before the report")
	flagSet.BoolVar(&o.human, "human", false, "print sizes in human-readable form")
	flagSet.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	showVersion := flagSet.Bool("version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stdout, flagSet)
			return nil
		}
		return usageError{err}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "dirtree %s\n", version)
		return nil
	}
	if flagSet.NArg() > 1 {
		return usageError{fmt.Errorf("unexpected argument: %s", flagSet.Arg(1))}
	}
	if o.loadPath != "" && flagSet.NArg() > 0 {
		return usageError{errors.New("--load and a transcript argument are mutually exclusive")}
	}

	logger, err := newLogger(stderr, o.logLevel)
	if err != nil {
		return usageError{err}
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, flagSet, o)
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}

	treeOptions := cfg.TreeOptions()
	treeOptions.Logger = logger

	var tree *dirtree.Tree
	if o.loadPath != "" {
		tree, err = snapshot.Restore(snapshot.NewFileStore(filepath.Dir(o.loadPath)), filepath.Base(o.loadPath), treeOptions)
	} else {
		tree, err = buildTree(flagSet.Arg(0), stdin, treeOptions)
	}
	if err != nil {
		return err
	}
	logger.Info("tree ready", "nodes", tree.Arena().Len())

	if cfg.Snapshot.Path != "" {
		compression, err := snapshot.ParseCompression(cfg.Snapshot.Compression)
		if err != nil {
			return err
		}
		store := snapshot.NewFileStore(filepath.Dir(cfg.Snapshot.Path))
		if err := snapshot.Save(store, filepath.Base(cfg.Snapshot.Path), tree, compression); err != nil {
			return err
		}
		logger.Info("snapshot saved", "path", cfg.Snapshot.Path, "compression", compression)
	}

	if o.showTree {
		if err := tree.Render(stdout, dirtree.RenderOptions{HumanSizes: o.human, DirSizes: true}); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
	}

	report, err := tree.Analyze(cfg.TreeLimits())
	if err != nil && !errors.Is(err, dirtree.ErrNoCandidate) {
		return err
	}
	printReport(stdout, tree, report, err == nil, o.human)
	return err
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	logLevel := slog.LevelWarn
	if os.Getenv("DIRTREE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	if level != "" {
		if err := logLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid --log-level %q", level)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, o options) {
	if flagSet.Changed("threshold") {
		cfg.Limits.Threshold = o.threshold
	}
	if flagSet.Changed("capacity") {
		cfg.Limits.Capacity = o.capacity
	}
	if flagSet.Changed("required") {
		cfg.Limits.Required = o.required
	}
	if flagSet.Changed("parent-at-root") {
		cfg.Navigation.ParentAtRoot = o.parentAtRoot
	}
	if flagSet.Changed("duplicates") {
		cfg.Navigation.Duplicates = o.duplicates
	}
	if flagSet.Changed("snapshot") {
		cfg.Snapshot.Path = o.snapshotPath
	}
	if flagSet.Changed("compression") {
		cfg.Snapshot.Compression = o.compression
	}
}

func buildTree(path string, stdin io.Reader, opts dirtree.Options) (*dirtree.Tree, error) {
	r := stdin
	name := "stdin"
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening transcript: %w", err)
		}
		defer f.Close()
		r = f
		name = path
	}

	cmds, err := transcript.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	tree := dirtree.New(opts)
	if err := tree.Replay(cmds); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tree, nil
}

func printReport(w io.Writer, tree *dirtree.Tree, r dirtree.Report, haveCandidate, human bool) {
	size := func(n uint64) string {
		if human {
			return humanize.Bytes(n)
		}
		return fmt.Sprintf("%d", n)
	}
	fmt.Fprintf(w, "used:       %s\n", size(r.Used))
	fmt.Fprintf(w, "free:       %s\n", size(r.Free))
	fmt.Fprintf(w, "sum below:  %s\n", size(r.SumBelow))
	if haveCandidate {
		fmt.Fprintf(w, "delete:     %s (%s)\n", tree.Path(r.Candidate), size(r.CandidateSize))
	} else {
		fmt.Fprintf(w, "delete:     none frees %s\n", size(r.Needed))
	}
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `dirtree - rebuild a directory tree from a cd/ls session and report sizes

USAGE
    dirtree [flags] [transcript|-]
    dirtree --load <snapshot> [flags]

FLAGS
`)
	fmt.Fprint(w, strings.TrimRight(flagSet.FlagUsages(), "\n"))
	fmt.Fprint(w, `

ENVIRONMENT
    DIRTREE_CONFIG  config file used when --config is not given
    DIRTREE_DEBUG   enable debug logging
`)
}
