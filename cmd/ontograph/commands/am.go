package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/am"
	"github.com/teranos/ontograph/display"
	"github.com/teranos/ontograph/errors"
)

func newAmCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Show and edit configuration",
		Long: `am - Show and edit ontograph configuration ("I am")

Configuration sources (in order of precedence):
1. Environment variables (ONTOGRAPH_* prefix, e.g. ONTOGRAPH_SERVER_PORT)
2. Project config (nearest am.toml walking up from the working directory)
3. User config (~/.ontograph/am.toml)
4. System config (/etc/ontograph/am.toml)
5. Default values

--config replaces all of the above with a single file.

Examples:
  ontograph am show --format yaml
  ontograph am where
  ontograph am set query.max_resolve_depth 8
  ontograph am validate`,
	}

	cmd.AddCommand(newAmShowCmd(opts), newAmWhereCmd(), newAmSetCmd(opts), newAmValidateCmd(opts))
	return cmd
}

func newAmShowCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "toml":
				data, err := toml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to TOML")
				}
				fmt.Fprintf(out, "# ontograph configuration\n%s", data)
				return nil
			case "json":
				return display.Render(out, display.FormatJSON, cfg)
			case "yaml":
				return display.Render(out, display.FormatYAML, cfg)
			}
			return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func newAmWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where each setting comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			files := make([][]string, 0, 3)
			for _, path := range am.ConfigPaths() {
				state := "missing"
				if _, err := os.Stat(path); err == nil {
					state = "loaded"
				}
				files = append(files, []string{path, state})
			}
			if err := display.WriteTable(out, []string{"File", "State"}, files); err != nil {
				return err
			}

			introspection := am.GetConfigIntrospection()
			rows := make([][]string, 0, len(introspection.Settings))
			for _, s := range introspection.Settings {
				rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
			}
			return display.WriteTable(out, []string{"Key", "Value", "Source", "From"}, rows)
		},
	}
}

func newAmSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the user config (or --config file)",
		Long: `Write one setting, keeping every other line of the file. The previous file
is kept as .back1 (up to three generations). Values are read as TOML, so
numbers, booleans and ["lists"] keep their types.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile
			if path == "" {
				path = am.UserConfigPath()
			}
			if err := am.SetValue(path, args[0], args[1]); err != nil {
				return err
			}

			// the write stands; surface problems before the next load trips on them
			cfg, _, err := am.DecodeFile(path)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), pterm.Warning.Sprintfln("%s now fails validation: %v", path, err))
			}
			fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("Set %s in %s", args[0], path))
			return nil
		},
	}
}

func newAmValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd, opts); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintln("Configuration is valid"))
			return nil
		},
	}
}
