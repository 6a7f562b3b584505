package dirtree

import (
	"context"
	"fmt"
	"log/slog"
)

// Command is one step of a recorded shell session. The set of commands is
// closed: ChangeDirectory, ListDirectory, FileEntry and DirectoryEntry.
type Command interface {
	fmt.Stringer
	command()
}

// ChangeDirectory is `cd Name`. Name is "/", ".." or a directory name.
type ChangeDirectory struct {
	Name string
}

// ListDirectory is `ls`. It has no effect on the tree; the entries that
// follow it carry the information.
type ListDirectory struct{}

// FileEntry is a file line in `ls` output.
type FileEntry struct {
	Name string
	Size uint64
}

// DirectoryEntry is a `dir Name` line in `ls` output.
type DirectoryEntry struct {
	Name string
}

func (ChangeDirectory) command() {}
func (ListDirectory) command()   {}
func (FileEntry) command()       {}
func (DirectoryEntry) command()  {}

func (c ChangeDirectory) String() string { return "cd " + c.Name }
func (ListDirectory) String() string     { return "ls" }
func (c FileEntry) String() string       { return fmt.Sprintf("%d %s", c.Size, c.Name) }
func (c DirectoryEntry) String() string  { return "dir " + c.Name }

// Apply performs one command against the cursor. Pointers to the command
// types are accepted too; a nil pointer is ErrInvalidCommand.
func (t *Tree) Apply(cmd Command) error {
	switch c := deref(cmd).(type) {
	case ChangeDirectory:
		switch c.Name {
		case "/":
			t.EnterRoot()
			return nil
		case "..":
			return t.EnterParent()
		default:
			return t.EnterChild(c.Name)
		}
	case ListDirectory:
		return nil
	case FileEntry:
		_, err := t.Record(File(c.Name, c.Size))
		return err
	case DirectoryEntry:
		_, err := t.Record(Directory(c.Name))
		return err
	default:
		return fmt.Errorf("%T: %w", cmd, ErrInvalidCommand)
	}
}

// deref returns the value form of a pointer command. Nil pointers map to
// nil, which Apply rejects.
func deref(cmd Command) Command {
	switch c := cmd.(type) {
	case *ChangeDirectory:
		if c != nil {
			return *c
		}
	case *ListDirectory:
		if c != nil {
			return *c
		}
	case *FileEntry:
		if c != nil {
			return *c
		}
	case *DirectoryEntry:
		if c != nil {
			return *c
		}
	default:
		return cmd
	}
	return nil
}

// Replay applies cmds in order and stops at the first failure, which is
// returned as a *CommandError. Commands applied before the failure stay
// applied.
func (t *Tree) Replay(cmds []Command) error {
	for i, cmd := range cmds {
		if cmd = deref(cmd); cmd == nil {
			return &CommandError{Index: i, Err: ErrInvalidCommand}
		}
		if err := t.Apply(cmd); err != nil {
			return &CommandError{Index: i, Command: cmd, Err: err}
		}
		if t.logger.Enabled(context.Background(), slog.LevelDebug) {
			t.logger.Debug("applied command",
				"index", i,
				"command", cmd.String(),
				"cwd", t.Path(t.current),
			)
		}
	}
	return nil
}
