package mcmsync

import (
	"errors"
	"fmt"
)

var (
	// ErrSectionNotFound indicates the section header is not present in the options file.
	ErrSectionNotFound = errors.New("section not found")
	// ErrMergeSkipped indicates a merge left the options untouched.
	ErrMergeSkipped = errors.New("merge skipped")
	// ErrUnsupportedValue indicates a setting value that is not a scalar.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrEmptyName indicates a setting without a name.
	ErrEmptyName = errors.New("empty setting name")
	// ErrInvalidEntry indicates a setting that can not be written as a single entry line.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrInvalidSettings indicates the settings document is not a JSON object.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrWorkdirNotSet indicates a workdir is required but not configured.
	ErrWorkdirNotSet = errors.New("no workdir set")
	// ErrWriteOptions indicates an options or settings file could not be written.
	ErrWriteOptions = errors.New("failed to write options")
)

// FormatError is returned for a setting that could not be formatted.
// Unsupported values are still written using their raw text. Settings
// failing with ErrEmptyName or ErrInvalidEntry are not written.
type FormatError struct {
	Name string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("setting %q: %s", e.Name, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
