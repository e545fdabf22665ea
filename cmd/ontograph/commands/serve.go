package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/am"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/server"
	"github.com/teranos/ontograph/types"
	"github.com/teranos/ontograph/version"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Serve the HTTP API",
		Long: `Serve structural queries and record mutations over HTTP.

Changes to the configuration files are picked up while running: the rate
limit, allowed origins and domain pattern are swapped in place. Database and
port changes need a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			cfg := rt.cfg.ServerSettings()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			srv := server.New(rt.svc, cfg, logger.Logger)

			if watch {
				stop, err := watchConfig(cmd, opts, srv, rt)
				if err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), pterm.Warning.Sprintfln("Config reload disabled: %v", err))
				} else {
					defer stop()
				}
			}

			printStartupBanner(cmd, rt, cfg.Port)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return errors.Wrap(err, "server stopped")
			}
			fmt.Fprint(cmd.OutOrStdout(), pterm.Info.Sprintln("Server stopped"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", am.DefaultServerPort, "Port to listen on (overrides server.port)")
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload rate limit, origins and domain pattern when config files change")
	return cmd
}

// watchConfig subscribes the running server to config file changes.
func watchConfig(cmd *cobra.Command, opts *rootOptions, srv *server.OntographServer, rt *runtime) (func(), error) {
	paths := am.ExistingConfigPaths()
	load := am.ReloadFromSources
	if opts.configFile != "" {
		paths = []string{opts.configFile}
		load = func() (*am.Config, error) {
			cfg, _, err := am.DecodeFile(opts.configFile)
			return cfg, err
		}
	}
	if len(paths) == 0 {
		return nil, errors.New("no configuration files present")
	}

	watcher, err := am.NewConfigWatcher(paths, load, logger.Logger)
	if err != nil {
		return nil, err
	}
	watcher.OnReload(func(cfg *am.Config) error {
		srv.SetRateLimit(cfg.Server.RequestsPerSecond, cfg.Server.Burst)
		srv.SetAllowedOrigins(cfg.Server.AllowedOrigins)
		return nil
	})
	watcher.OnReload(func(cfg *am.Config) error {
		validator, err := types.NewValidator(cfg.Domain.TypeIDPattern)
		if err != nil {
			return err
		}
		rt.svc.SetValidator(validator)
		return nil
	})

	am.SetGlobalWatcher(watcher)
	watcher.Start()
	return func() {
		am.SetGlobalWatcher(nil)
		_ = watcher.Stop()
	}, nil
}

func printStartupBanner(cmd *cobra.Command, rt *runtime, port int) {
	info := version.Get()
	out := cmd.OutOrStdout()

	fmt.Fprint(out, pterm.DefaultSection.Sprint("ontograph"))
	data := pterm.TableData{
		{"Version", info.Version + " (commit " + info.Short() + ")"},
		{"Database", rt.cfg.Database.Path},
		{"Address", ":" + strconv.Itoa(port)},
		{"Max resolve depth", strconv.Itoa(rt.cfg.Query.MaxResolveDepth)},
	}
	if rt.cfg.Domain.TypeIDPattern != "" {
		data = append(data, []string{"Type ID pattern", rt.cfg.Domain.TypeIDPattern})
	}
	if table, err := pterm.DefaultTable.WithData(data).Srender(); err == nil {
		fmt.Fprintln(out, table)
	}
	fmt.Fprint(out, pterm.Info.Sprintln("Press Ctrl+C to stop"))
}
