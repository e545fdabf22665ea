package display

import (
	"github.com/spf13/cobra"
)

// FormatFromCommand resolves the output format from the command's
// --format flag, with --json as a shorthand that wins when set. fallback
// applies when the command has neither flag.
func FormatFromCommand(cmd *cobra.Command, fallback Format) (Format, error) {
	if cmd == nil {
		return fallback, nil
	}

	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		if on, _ := cmd.Flags().GetBool("json"); on {
			return FormatJSON, nil
		}
	}

	if f := cmd.Flags().Lookup("format"); f != nil {
		return ParseFormat(f.Value.String())
	}
	return fallback, nil
}
