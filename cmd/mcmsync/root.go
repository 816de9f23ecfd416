package main

import (
	"fmt"

	"github.com/axrtools/mcmsync"
	"github.com/spf13/cobra"
)

type flags struct {
	section   string
	settings  string
	options   string
	saved     string
	overrides string
	backup    string
	envPrefix string
	ignore    []string
	dedupe    bool
	dryRun    bool
}

// NewRootCommand creates the mcmsync command.
func NewRootCommand(version, commit, date string) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "mcmsync [workdir]",
		Short: "Apply settings.json to the MCM section of axr_options.ltx",
		Long: `mcmsync merges the settings from settings.json into the [mcm] section
of axr_options.ltx. Existing entries are updated, new ones are added and the
section is sorted. A backup of the options file is written first.

If axr_options_saved.ltx exists, the entries that differ from the defaults are
written to generated_user_settings.json, ready to be used as a settings.json.

All files are looked up in workdir, which defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir := "."
			if len(args) > 0 {
				workdir = args[0]
			}

			return run(cmd, f.workspace(workdir))
		},
	}

	fs := rootCmd.Flags()
	fs.StringVar(&f.section, "section", mcmsync.DefaultSection, "section to merge the settings into")
	fs.StringVar(&f.settings, "settings", "settings.json", "settings to apply")
	fs.StringVar(&f.options, "options", "axr_options.ltx", "options file to update")
	fs.StringVar(&f.saved, "saved", "axr_options_saved.ltx", "saved user options to generate overrides from, empty to disable")
	fs.StringVar(&f.overrides, "overrides", "generated_user_settings.json", "where to write the generated overrides")
	fs.StringVar(&f.backup, "backup", "axr_options_backup_%s.ltx", "backup file name, %s is replaced by the current time")
	fs.StringVar(&f.envPrefix, "env-prefix", "MCMSYNC", "prefix of environment variables overlaying settings, empty to disable")
	fs.StringArrayVar(&f.ignore, "ignore", nil, "glob of setting names to never report as unrecognized (repeatable)")
	fs.BoolVar(&f.dedupe, "dedupe", false, "collapse repeated entries of merged settings")
	fs.BoolVar(&f.dryRun, "dry-run", false, "do not write any files")

	return rootCmd
}

func (f *flags) workspace(workdir string) *mcmsync.Workspace {
	ws := mcmsync.NewWorkspace(workdir)
	ws.Section = f.section
	ws.SettingsFile = f.settings
	ws.OptionsFile = f.options
	ws.SavedFile = f.saved
	ws.OverridesFile = f.overrides
	ws.BackupPattern = f.backup
	ws.EnvPrefix = f.envPrefix
	ws.Ignore = f.ignore
	ws.Dedupe = f.dedupe
	ws.NoWrites = f.dryRun

	return ws
}

func run(cmd *cobra.Command, ws *mcmsync.Workspace) error {
	if err := ws.EnsureFiles(); err != nil {
		return err
	}

	report, err := ws.Sync()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderReport(report, ws))

	return nil
}
