package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/db"
	"github.com/teranos/ontograph/display"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
)

func newDbCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Inspect and migrate the database",
		Long: `Manage the SQLite database configured by database.path.

Examples:
  ontograph db migrate      # Apply pending migrations
  ontograph db status       # List embedded migrations and whether they ran`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := db.AppliedVersions(database)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), pterm.Success.Sprintfln("%s is at migration %s", cfg.Database.Path, applied[len(applied)-1]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List embedded migrations and whether they ran",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			database, err := db.Open(cfg.Database.Path, logger.Logger)
			if err != nil {
				return errors.Wrapf(err, "failed to open database at %s", cfg.Database.Path)
			}
			defer database.Close()

			files, err := db.Migrations()
			if err != nil {
				return err
			}
			// a fresh database has no schema_migrations table yet
			applied, _ := db.AppliedVersions(database)
			done := make(map[string]bool, len(applied))
			for _, v := range applied {
				done[v] = true
			}

			rows := make([][]string, 0, len(files))
			for _, file := range files {
				version, _, _ := strings.Cut(file, "_")
				state := "pending"
				if done[version] {
					state = "applied"
				}
				rows = append(rows, []string{version, file, state})
			}
			return display.WriteTable(cmd.OutOrStdout(), []string{"Version", "Migration", "State"}, rows)
		},
	})
	return cmd
}
