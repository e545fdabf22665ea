package commands

import (
	"database/sql"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/am"
	"github.com/teranos/ontograph/db"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/graph"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/store/sqlstore"
	"github.com/teranos/ontograph/types"
)

// loadConfig reads --config when given, otherwise the merged sources, and
// validates the result.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*am.Config, error) {
	var (
		cfg *am.Config
		err error
	)
	if opts.configFile != "" {
		var unknown []string
		cfg, unknown, err = am.DecodeFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		for _, key := range unknown {
			fmt.Fprint(cmd.ErrOrStderr(), pterm.Warning.Sprintfln("Unknown configuration key %q in %s", key, opts.configFile))
		}
	} else {
		cfg, err = am.Load()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load configuration")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// runtime bundles everything a command needs to talk to the graph.
type runtime struct {
	cfg  *am.Config
	db   *sql.DB
	pool *sqlstore.Pool
	svc  *graph.Service
}

// openRuntime opens and migrates the configured database and builds the
// graph service over it.
func openRuntime(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	validator, err := types.NewValidator(cfg.Domain.TypeIDPattern)
	if err != nil {
		database.Close()
		return nil, errors.Wrap(err, "invalid domain.type_id_pattern")
	}

	pool := sqlstore.NewPool(database, cfg.Database.MaxConnections, cfg.Database.AcquireTimeout(), logger.Logger)
	svc := graph.NewService(pool, validator, logger.Logger,
		graph.WithMaxResolveDepth(uint8(cfg.Query.MaxResolveDepth)))

	return &runtime{cfg: cfg, db: database, pool: pool, svc: svc}, nil
}

// Close closes the pool, which owns the database.
func (r *runtime) Close() error {
	return r.pool.Close()
}

// openDatabase opens and migrates the database at cfg.Database.Path.
func openDatabase(cfg *am.Config) (*sql.DB, error) {
	database, err := db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", cfg.Database.Path)
	}
	return database, nil
}
