package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/errors"
)

func newAccountCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Register owner accounts",
		Long:  "Records can only be owned by registered accounts.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create [uuid]",
		Short: "Register an account id, generating one when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.New()
			if len(args) == 1 {
				parsed, err := uuid.Parse(args[0])
				if err != nil {
					return errors.Wrap(err, "invalid account id")
				}
				id = parsed
			}

			rt, err := openRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.svc.InsertAccount(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprint(cmd.ErrOrStderr(), pterm.Success.Sprintln("Account registered"))
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	})
	return cmd
}
