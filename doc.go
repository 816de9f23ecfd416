// Package mcmsync keeps the mod configuration menu (MCM) settings of an
// options file in sync with a flat settings.json. It also derives the
// settings a user changed by comparing their saved options with the
// shipped defaults.
//
// Options files use a simple line based format with named sections:
//
//	[mcm]
//	        3d_scopes/chromatism = true
//	        EA_settings/ea_debug = false
//
//	[modded_exes]
//	        ...
//
// A section body ends at the next section header, the next blank line or
// the end of the file. Entries are split at the first '='. Lines without
// a '=' are kept but otherwise ignored. There are no comments, escapes or
// multi-valued keys.
//
// # Usage
//
// The engine works on lines (terminators included) and never does any
// I/O itself:
//
//	lines, _ := mcmsync.ReadLines(r)
//	settings, _ := mcmsync.ParseSettings(data)
//	ed := mcmsync.NewEditor("mcm")
//	unknown, _ := ed.Unrecognized(lines, settings)
//	lines, err := ed.Merge(lines, settings)
//
// Merge rewrites existing entries in place, appends new ones and sorts
// the section. Everything outside of the section is left alone.
//
// Use a Workspace to run the whole process on a directory, including the
// backup of the options file and the generation of the overrides file:
//
//	ws := mcmsync.NewWorkspace(".")
//	ws.EnsureFiles()
//	report, err := ws.Sync()
//
// # Error Handling
//
// Only I/O failures are fatal. A missing section and values that can not
// be written are reported but do not stop a merge:
//
//	lines, err := ed.Merge(lines, settings)
//	if errors.Is(err, mcmsync.ErrMergeSkipped) {
//		// lines are unchanged
//	}
//	var fe *mcmsync.FormatError
//	if errors.As(err, &fe) {
//		// fe.Name was written using its raw JSON text
//	}
//
// # Known limitations
//
// * Repeated entries of a setting are all rewritten but not collapsed,
// unless Editor.Dedupe is set
// * Values containing line breaks are written as is and break the file
package mcmsync
