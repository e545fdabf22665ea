// Package commands implements the ontograph command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	verbosity  int
	logJSON    bool
}

// NewRootCmd builds the ontograph command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ontograph",
		Short: "Temporal typed-knowledge graph store",
		Long: `ontograph - versioned ontology types, entities and links with structural queries.

Available commands:
  serve      - Serve the HTTP API
  query      - Run a structural query
  create     - Create records from a JSON file
  archive    - Archive the latest version of a record
  unarchive  - Restore an archived record
  account    - Register owner accounts
  db         - Inspect and migrate the database
  am         - Show and edit configuration
  version    - Show build information

Examples:
  ontograph serve
  ontograph query --kind entityType --where '.title = Person' --depth inheritsFrom=0/2
  ontograph create --kind dataType --file text.json --owner $OWNER
  ontograph am set server.port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Initialize(opts.logJSON, opts.verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Read configuration only from this TOML file")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		newServeCmd(opts),
		newQueryCmd(opts),
		newCreateCmd(opts),
		newArchiveCmd(opts, true),
		newArchiveCmd(opts, false),
		newAccountCmd(opts),
		newDbCmd(opts),
		newAmCmd(opts),
		newVersionCmd(),
	)
	return root
}
