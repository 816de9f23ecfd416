package mcmsync

import (
	"fmt"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
	"github.com/iancoleman/orderedmap"
)

// Header returns the header line of the named section, e.g. "[mcm]\n".
func Header(section string) string {
	return "[" + section + "]\n"
}

// Locate finds the body of the section introduced by header. The body
// is lines[start:end]: it starts right after the header and ends before
// the next section header, the next blank line or the end of the input.
//
// header must match a line exactly, including its line terminator.
// Only the first matching header is considered.
func Locate(lines []string, header string) (start, end int, err error) { //nolint:nonamedreturns
	hdr := -1
	for i, line := range lines {
		if line == header {
			hdr = i

			break
		}
	}
	if hdr < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrSectionNotFound, strings.TrimSpace(header))
	}

	start = hdr + 1
	for i := start; i < len(lines); i++ {
		if isSectionEnd(lines[i]) {
			debug.V(3).Log("section %q spans lines [%d, %d)", header, start, i)

			return start, i, nil
		}
	}

	// the last section in a file does not need a terminator
	debug.V(3).Log("section %q spans lines [%d, EOF=%d)", header, start, len(lines))

	return start, len(lines), nil
}

func isSectionEnd(line string) bool {
	return strings.HasPrefix(line, "[") || strings.TrimSpace(line) == ""
}

// ParseLine decomposes a "name = value" line. The line is split at the
// first '=' and both halves are trimmed. ok is false if the line does
// not contain a '='. The name may be empty, the value too.
func ParseLine(line string) (name, value string, ok bool) { //nolint:nonamedreturns
	name, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}

	return strings.TrimSpace(name), strings.TrimSpace(value), true
}

// ParseSection maps every named entry of a section body to its raw value.
// Lines without '=' and entries with an empty name are ignored. If a
// name appears more than once the last value wins but the name keeps
// the position of its first appearance.
func ParseSection(body []string) *orderedmap.OrderedMap {
	entries := orderedmap.New()
	entries.SetEscapeHTML(false)

	for _, line := range body {
		name, value, ok := ParseLine(line)
		if !ok || name == "" {
			continue
		}
		entries.Set(name, value)
	}

	return entries
}

// sectionNames returns the set of entry names in a section body.
func sectionNames(body []string) map[string]bool {
	names := make([]string, 0, len(body))
	for _, line := range body {
		name, _, ok := ParseLine(line)
		if !ok || name == "" {
			continue
		}
		names = append(names, name)
	}

	return set.Map(names)
}
