package mcmsync

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/creachadair/atomicfile"
	"github.com/gobwas/glob"
	"github.com/gopasspw/gopass/pkg/debug"
)

// globMatch implements a glob matcher that supports double-asterisk (**) patterns.
func globMatch(pattern, s string) (bool, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return false, err
	}

	return g.Match(s), nil
}

// ReadLines splits r into lines. Every line keeps its terminator, only
// the last one may lack it. An empty input yields no lines.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)

	lines := make([]string, 0, 128)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// writeLines writes lines as they are, without adding terminators.
func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// writeFileAtomic replaces fn with the output of fill. The file is only
// replaced if fill succeeds, a reader never sees a partial file.
func writeFileAtomic(fn string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory %q for %q: %w", ErrWriteOptions, filepath.Dir(fn), fn, err)
	}

	f, err := atomicfile.New(fn, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOptions, fn, err)
	}
	defer f.Cancel()

	if err := fill(f); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOptions, fn, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOptions, fn, err)
	}

	debug.V(1).Log("wrote %s", fn)

	return nil
}
