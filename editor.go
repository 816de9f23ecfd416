package mcmsync

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/iancoleman/orderedmap"
)

var (
	// DefaultSection is the section the mod configuration menu stores its settings in.
	DefaultSection = "mcm"
	// DefaultIndent is how entries are indented in the options files shipped with the game.
	DefaultIndent = "        "

	entryTpl = "%s%s = %s\n"
)

// Editor merges settings into one section of an options file and
// reports how the section differs from a set of settings or from
// another copy of the same section.
//
// The zero value edits the DefaultSection with the DefaultIndent.
// An Editor holds no state between calls; the methods never modify
// the slices they are given.
type Editor struct {
	// Section is the section name without brackets.
	Section string
	// Indent is prepended to every line the editor writes.
	Indent string
	// Dedupe drops repeated entries of a merged setting instead of
	// rewriting each of them.
	Dedupe bool
	// Ignore holds glob patterns ('/' separated, '**' supported) of
	// setting names that are never reported as unrecognized.
	Ignore []string
}

// NewEditor returns an Editor for the named section.
func NewEditor(section string) *Editor {
	return &Editor{
		Section: section,
		Indent:  DefaultIndent,
	}
}

// Header returns the header line of the edited section.
func (e *Editor) Header() string {
	if e.Section == "" {
		return Header(DefaultSection)
	}

	return Header(e.Section)
}

func (e *Editor) indent() string {
	if e.Indent == "" {
		return DefaultIndent
	}

	return e.Indent
}

func (e *Editor) formatEntry(name, value string) string {
	return fmt.Sprintf(entryTpl, e.indent(), name, value)
}

// Merge is a shorthand for merging into the section introduced by header
// with the default options. See Editor.Merge.
func Merge(lines []string, header string, incoming *Settings) ([]string, error) {
	return (&Editor{}).merge(lines, header, incoming)
}

// Merge writes incoming into the section and returns the new lines.
//
// Entries already present in the section are rewritten in place, the
// remaining settings are appended and the section body is sorted.
// Lines outside of the body are passed through unchanged.
//
// If the section can not be found the input is returned as is together
// with an error matching both ErrMergeSkipped and ErrSectionNotFound.
// Settings that can not be formatted are written using their raw text
// and reported as *FormatError, joined into the returned error.
// Settings whose entry would not read back as the same setting (an
// empty name, a name with surrounding blanks, '=' or a line break, or
// a value with a line break) are not written and are reported the same
// way. An unterminated last line in the section gets a line break.
func (e *Editor) Merge(lines []string, incoming *Settings) ([]string, error) {
	return e.merge(lines, e.Header(), incoming)
}

func (e *Editor) merge(lines []string, header string, incoming *Settings) ([]string, error) {
	start, end, err := Locate(lines, header)
	if err != nil {
		debug.Log("not merging %d settings: %s", incoming.Len(), err)

		return lines, fmt.Errorf("%w: %w", ErrMergeSkipped, err)
	}

	var errs []error
	rendered := make(map[string]string, incoming.Len())
	for _, name := range incoming.Keys() {
		if err := e.checkName(name); err != nil {
			debug.Log("not writing %q: %s", name, err)
			errs = append(errs, &FormatError{Name: name, Err: err})

			continue
		}

		v, _ := incoming.Get(name)
		s, err := FormatValue(v)
		if strings.ContainsAny(s, "\r\n") {
			debug.Log("not writing %q: value spans lines", name)
			errs = append(errs, &FormatError{Name: name, Err: fmt.Errorf("%w: value spans lines", ErrInvalidEntry)})

			continue
		}
		if err != nil {
			debug.Log("failed to format %q, using %q: %s", name, s, err)
			errs = append(errs, &FormatError{Name: name, Err: err})
		}
		rendered[name] = s
	}

	body := lines[start:end]
	merged := make([]string, 0, len(body)+len(rendered))
	applied := make(map[string]bool, len(rendered))

	for _, line := range body {
		// only the last line of the file can be unterminated
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}

		name, _, ok := ParseLine(line)
		value, found := rendered[name]
		if !ok || name == "" || !found {
			merged = append(merged, line)

			continue
		}
		if applied[name] && e.Dedupe {
			debug.V(1).Log("dropping duplicate entry %q", line)

			continue
		}

		merged = append(merged, e.formatEntry(name, value))
		applied[name] = true
	}

	for _, name := range incoming.Keys() {
		value, found := rendered[name]
		if !found || applied[name] {
			continue
		}

		debug.V(2).Log("adding new entry %q", name)
		merged = append(merged, e.formatEntry(name, value))
		applied[name] = true
	}

	slices.Sort(merged)

	out := make([]string, 0, len(lines)-len(body)+len(merged))
	out = append(out, lines[:start]...)
	out = append(out, merged...)
	out = append(out, lines[end:]...)

	debug.V(1).Log("merged %d settings into %q (%d -> %d lines)", len(applied), header, len(body), len(merged))

	return out, errors.Join(errs...)
}

// checkName returns an error if an entry for name would not be read
// back under the same name.
func (e *Editor) checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: name spans lines", ErrInvalidEntry)
	}
	if got, _, _ := ParseLine(e.formatEntry(name, "")); got != name {
		return fmt.Errorf("%w: name reads back as %q", ErrInvalidEntry, got)
	}

	return nil
}

// Missing returns the incoming settings whose names are not in names,
// in the order of incoming.
func Missing(names map[string]bool, incoming *Settings) []Setting {
	var out []Setting
	for _, s := range incoming.All() {
		if names[s.Name] {
			continue
		}
		out = append(out, s)
	}

	return out
}

// Unrecognized returns the incoming settings that have no entry in the
// section, skipping names that match one of the Ignore patterns. The
// game may not know about these settings.
func (e *Editor) Unrecognized(lines []string, incoming *Settings) ([]Setting, error) {
	start, end, err := Locate(lines, e.Header())
	if err != nil {
		return nil, err
	}

	missing := Missing(sectionNames(lines[start:end]), incoming)
	if len(e.Ignore) == 0 {
		return missing, nil
	}

	return slices.DeleteFunc(missing, func(s Setting) bool {
		return e.ignored(s.Name)
	}), nil
}

func (e *Editor) ignored(name string) bool {
	for _, pattern := range e.Ignore {
		match, err := globMatch(pattern, name)
		if err != nil {
			debug.V(1).Log("invalid ignore pattern %q: %s", pattern, err)

			continue
		}
		if match {
			debug.V(2).Log("ignoring %q, matches %q", name, pattern)

			return true
		}
	}

	return false
}

// Overrides compares the section in a user's options with the same
// section in the defaults. It returns the user entries that are missing
// from the defaults or have a different value, ordered as in the user
// options. The values are the raw strings found in the file.
func (e *Editor) Overrides(defaults, user []string) (*orderedmap.OrderedMap, error) {
	ds, de, err := Locate(defaults, e.Header())
	if err != nil {
		return nil, fmt.Errorf("default options: %w", err)
	}
	us, ue, err := Locate(user, e.Header())
	if err != nil {
		return nil, fmt.Errorf("user options: %w", err)
	}

	def := ParseSection(defaults[ds:de])
	usr := ParseSection(user[us:ue])

	out := orderedmap.New()
	out.SetEscapeHTML(false)
	for _, name := range usr.Keys() {
		uv, _ := usr.Get(name)
		if dv, found := def.Get(name); found && dv == uv {
			continue
		}
		debug.V(2).Log("override %q = %q", name, uv)
		out.Set(name, uv)
	}

	return out, nil
}
