package mcmsync

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// File represents a single options file, e.g. axr_options.ltx.
//
// File keeps every line of the file verbatim, including its terminator,
// so that writing it back only changes what a merge changed.
//
// Fields:
// - path: File path of this options file
// - readonly: If true, prevents any modifications (even in-memory)
// - noWrites: If true, prevents persisting changes to disk (useful for testing)
// - lines: The raw lines of the file
//
// Note: File is not thread-safe. Callers must provide synchronization if needed.
//
// Typical Usage:
//
//	f, err := LoadFile("axr_options.ltx")
//	if err != nil { ... }
//	if err := f.Merge(NewEditor("mcm"), settings); err != nil { ... }
//	if err := f.Write(); err != nil { ... }
type File struct {
	path     string
	readonly bool // do not allow modifying lines (even in memory)
	noWrites bool // do not persist changes to disk (e.g. for tests)
	lines    []string
}

// IsEmpty returns true if the file is nil or has no lines.
func (f *File) IsEmpty() bool {
	return f == nil || len(f.lines) == 0
}

// Path returns the location the file was loaded from.
func (f *File) Path() string {
	return f.path
}

// Lines returns a copy of the raw lines.
func (f *File) Lines() []string {
	if f == nil {
		return nil
	}

	return slices.Clone(f.lines)
}

// String returns the file content.
func (f *File) String() string {
	if f == nil {
		return ""
	}

	return strings.Join(f.lines, "")
}

// Merge merges incoming into the section handled by e.
//
// Behavior:
// - The in-memory lines are replaced by the merge result
// - Nothing is written to disk, use Write for that
// - Readonly files silently ignore the merge
// - A missing section leaves the lines untouched and returns an error
//   matching ErrMergeSkipped
// - Formatting problems are returned as joined *FormatError but the
//   merge result is kept
func (f *File) Merge(e *Editor, incoming *Settings) error {
	if f.readonly {
		debug.Log("can not merge into a readonly options file")

		return nil
	}

	lines, err := e.Merge(f.lines, incoming)
	f.lines = lines

	return err
}

// Unrecognized returns the incoming settings the section handled by e
// does not know about. See Editor.Unrecognized.
func (f *File) Unrecognized(e *Editor, incoming *Settings) ([]Setting, error) {
	return e.Unrecognized(f.lines, incoming)
}

// Write persists the lines to the path the file was loaded from.
// The file is replaced atomically.
func (f *File) Write() error {
	if f.noWrites || f.path == "" {
		debug.V(3).Log("not writing changes to disk (noWrites %t, path %q)", f.noWrites, f.path)

		return nil
	}

	debug.V(3).Log("writing options to %s: \n--------------\n%s\n--------------", f.path, f.String())

	return writeFileAtomic(f.path, func(w io.Writer) error {
		return writeLines(w, f.lines)
	})
}

// Backup writes the current lines to fn. It is meant to be called
// before Merge so that the original content can be restored.
func (f *File) Backup(fn string) error {
	if f.noWrites {
		debug.V(3).Log("not writing backup %q (noWrites)", fn)

		return nil
	}

	if err := writeFileAtomic(fn, func(w io.Writer) error {
		return writeLines(w, f.lines)
	}); err != nil {
		return fmt.Errorf("backup of %s: %w", f.path, err)
	}

	debug.Log("backed up %s to %s", f.path, fn)

	return nil
}

// LoadFile reads an options file from the given path.
func LoadFile(fn string) (*File, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close() //nolint:errcheck

	f, err := ParseFile(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fn, err)
	}
	f.path = fn

	return f, nil
}

// ParseFile reads an options file from r. The result has no path and
// is never written by Write.
func ParseFile(r io.Reader) (*File, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}

	debug.V(3).Log("read %d lines", len(lines))

	return &File{lines: lines}, nil
}

// NewFromLines returns a readonly, in-memory options file.
func NewFromLines(lines []string) *File {
	return &File{
		readonly: true,
		noWrites: true,
		lines:    slices.Clone(lines),
	}
}
