// Package cli provides the ticketctl command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/app"
	"github.com/opsdesk/ticket-admin/internal/config"
	"github.com/opsdesk/ticket-admin/internal/observability"
)

// Version is set at build time.
var Version = "dev"

// runtime is what every subcommand works against. It is built lazily in
// PersistentPreRunE so that help and version need no connections.
type runtime struct {
	verbose bool
	app     *app.App
}

// NewRootCmd builds the ticketctl command tree.
func NewRootCmd() *cobra.Command {
	rt := &runtime{}
	root := &cobra.Command{
		Use:           "ticketctl",
		Short:         "Operate the ticket admin console backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || !cmd.Runnable() {
				return nil
			}
			return rt.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.app != nil {
				rt.app.Close()
				_ = rt.app.Logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newDBCmd(rt))
	root.AddCommand(newLogsCmd(rt))
	return root
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (rt *runtime) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.verbose {
		cfg.Logger.Level = "debug"
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(ctx, *cfg, logger.With(zap.String("component", "ticketctl")))
	if err != nil {
		return err
	}
	rt.app = a
	return nil
}
