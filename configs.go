package mcmsync

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/iancoleman/orderedmap"
)

var (
	settingsFile   = "settings.json"
	optionsFile    = "axr_options.ltx"
	savedFile      = "axr_options_saved.ltx"
	overridesFile  = "generated_user_settings.json"
	backupPattern  = "axr_options_backup_%s.ltx"
	envPrefix      = "MCMSYNC"
	backupTimeTmpl = "20060102_150405"
)

// Workspace represents all files a sync run reads and writes inside one
// working directory.
//
// Files (relative to the workdir, absolute paths are used as is):
// - SettingsFile: The settings to apply (settings.json)
// - OptionsFile: The options file to update (axr_options.ltx)
// - SavedFile: A user's saved options (axr_options_saved.ltx), used to
//   generate OverridesFile. Set it to "" to disable override generation.
// - OverridesFile: Where the generated overrides are written
//   (generated_user_settings.json)
// - BackupPattern: Name of the backup of OptionsFile. The first "%s" is
//   replaced by the current time, a pattern without it is a fixed name.
//
// Other fields:
// - Section: The section to merge into (defaults to mcm)
// - Ignore: Glob patterns of settings never reported as unrecognized
// - Dedupe: Drop repeated entries of merged settings
// - EnvPrefix: Prefix of the settings overlay environment variables,
//   "" disables the overlay
// - NoWrites: If true, nothing is written to disk
// - Now: Clock used for backup names
//
// Usage:
//
//	ws := NewWorkspace(".")
//	report, err := ws.Sync()
type Workspace struct {
	workdir string

	Section       string
	SettingsFile  string
	OptionsFile   string
	SavedFile     string
	OverridesFile string
	BackupPattern string
	EnvPrefix     string
	Ignore        []string
	Dedupe        bool
	NoWrites      bool
	Now           func() time.Time
}

// Report summarizes a sync run.
type Report struct {
	// Unrecognized are the settings without an entry in the options file.
	Unrecognized []Setting
	// Overrides are the entries of the saved options that differ from the
	// options file. Nil if override generation is disabled or failed.
	Overrides *orderedmap.OrderedMap
	// BackupPath is the location of the backup, empty if none was written.
	BackupPath string
	// Warnings are problems that did not stop the run, e.g. a missing
	// section or a value that could not be formatted.
	Warnings []error
}

// NewWorkspace creates a Workspace with the default file names.
func NewWorkspace(workdir string) *Workspace {
	return &Workspace{
		workdir: workdir,

		Section:       DefaultSection,
		SettingsFile:  settingsFile,
		OptionsFile:   optionsFile,
		SavedFile:     savedFile,
		OverridesFile: overridesFile,
		BackupPattern: backupPattern,
		EnvPrefix:     envPrefix,
		Now:           time.Now,
	}
}

// Workdir returns the working directory.
func (w *Workspace) Workdir() string {
	return w.workdir
}

// String implements fmt.Stringer for debugging.
func (w *Workspace) String() string {
	return fmt.Sprintf("Workspace{Workdir: %s - Section: %s - Settings: %s - Options: %s - Saved: %s - Overrides: %s}", w.workdir, w.Section, w.SettingsFile, w.OptionsFile, w.SavedFile, w.OverridesFile)
}

func (w *Workspace) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(w.workdir, name)
}

// Editor returns an Editor configured from the workspace.
func (w *Workspace) Editor() *Editor {
	e := NewEditor(w.Section)
	e.Dedupe = w.Dedupe
	e.Ignore = w.Ignore

	return e
}

// BackupPath returns the path the next backup will be written to.
func (w *Workspace) BackupPath() string {
	name := w.BackupPattern
	if strings.Contains(name, "%s") {
		now := time.Now
		if w.Now != nil {
			now = w.Now
		}
		name = strings.Replace(name, "%s", now().Format(backupTimeTmpl), 1)
	}

	return w.path(name)
}

// EnsureFiles creates missing input files so that a first run in an
// empty directory succeeds. JSON files are created with an empty
// object, options files empty. Existing files are never touched.
func (w *Workspace) EnsureFiles() error {
	if w.workdir == "" {
		return ErrWorkdirNotSet
	}

	files := []string{w.SettingsFile, w.OptionsFile, w.SavedFile}
	for _, name := range files {
		if name == "" {
			continue
		}
		fn := w.path(name)
		if _, err := os.Stat(fn); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if w.NoWrites {
			debug.V(1).Log("not creating missing %s (noWrites)", fn)

			continue
		}

		content := ""
		if strings.HasSuffix(name, ".json") {
			content = "{}"
		}
		if err := writeFileAtomic(fn, func(wr io.Writer) error {
			_, err := io.WriteString(wr, content)

			return err
		}); err != nil {
			return err
		}
		debug.Log("created missing %s", fn)
	}

	return nil
}

// LoadSettings reads SettingsFile and overlays the settings from the
// environment, if EnvPrefix is set.
func (w *Workspace) LoadSettings() (*Settings, error) {
	if w.workdir == "" {
		return nil, ErrWorkdirNotSet
	}

	s, err := LoadSettings(w.path(w.SettingsFile))
	if err != nil {
		return nil, err
	}

	if w.EnvPrefix != "" {
		env := LoadSettingsFromEnv(w.EnvPrefix)
		debug.V(1).Log("[%s] overlaying %d settings from env", w.EnvPrefix, env.Len())
		s.Overlay(env)
	}

	return s, nil
}

// Sync runs a full update of the workspace:
//
// 1. Load the settings and the options file (and the saved options)
// 2. Back up the options file
// 3. Find settings the options file does not know about
// 4. Merge the settings into the options file and write it
// 5. Generate the overrides from the saved options, if enabled
//
// Any I/O failure aborts the run and is returned. Problems with the
// content, like a missing section, are collected in Report.Warnings.
func (w *Workspace) Sync() (*Report, error) {
	if w.workdir == "" {
		return nil, ErrWorkdirNotSet
	}

	debug.Log("syncing %s", w)

	settings, err := w.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	opts, err := LoadFile(w.path(w.OptionsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}
	opts.noWrites = w.NoWrites
	defaults := opts.Lines()

	var saved *File
	if w.SavedFile != "" {
		saved, err = LoadFile(w.path(w.SavedFile))
		if err != nil {
			return nil, fmt.Errorf("failed to load saved options: %w", err)
		}
	}

	r := &Report{}
	if !w.NoWrites {
		r.BackupPath = w.BackupPath()
		if err := opts.Backup(r.BackupPath); err != nil {
			return nil, err
		}
	}

	ed := w.Editor()

	r.Unrecognized, err = opts.Unrecognized(ed, settings)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Errorf("could not check for unrecognized settings: %w", err))
	}

	if err := opts.Merge(ed, settings); err != nil {
		r.Warnings = append(r.Warnings, fmt.Errorf("could not merge settings: %w", err))
	}

	if err := opts.Write(); err != nil {
		return nil, err
	}

	if saved == nil {
		return r, nil
	}

	overrides, err := ed.Overrides(defaults, saved.Lines())
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Errorf("could not generate overrides: %w", err))

		return r, nil
	}
	r.Overrides = overrides

	if err := w.writeOverrides(overrides); err != nil {
		return nil, err
	}

	return r, nil
}

func (w *Workspace) writeOverrides(overrides *orderedmap.OrderedMap) error {
	if w.NoWrites || w.OverridesFile == "" {
		debug.V(3).Log("not writing overrides (noWrites %t, path %q)", w.NoWrites, w.OverridesFile)

		return nil
	}

	buf, err := overrides.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode overrides: %w", err)
	}

	return writeFileAtomic(w.path(w.OverridesFile), func(wr io.Writer) error {
		_, err := wr.Write(append(buf, '\n'))

		return err
	})
}
