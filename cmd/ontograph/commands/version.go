package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/display"
	"github.com/teranos/ontograph/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show ontograph version information",
		Long:  `Display version, build time, commit hash, and platform information for the ontograph binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			format, err := display.FormatFromCommand(cmd, display.FormatTable)
			if err != nil {
				return err
			}
			if format != display.FormatTable {
				return display.Render(cmd.OutOrStdout(), format, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
	cmd.Flags().String("format", string(display.FormatTable), "Output format: table, json, yaml")
	return cmd
}
