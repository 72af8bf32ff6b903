package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reconcile/internal/config"
	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/logging"
)

// commandContext carries settings shared by all subcommands.
type commandContext struct {
	cfg       *config.Config
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

// service builds a core.Service without a run store; the CLI keeps no history.
func (c *commandContext) service() *core.Service {
	return core.NewService(nil, c.cfg.Reconcile)
}

// withLogger attaches the CLI logger so the service logs to stderr.
func (c *commandContext) withLogger(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, c.logger)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{cfg: config.Defaults()}

	rootCmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Fuzzy reconciliation of two CSV tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.logger = logging.New(ctx.logLevel, ctx.logFormat, cmd.ErrOrStderr())
			return ctx.cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.StringVar(&ctx.logFormat, "log-format", "text", "Log format: text or json")
	flags.Int64Var(&ctx.cfg.Reconcile.MaxFileSize, "max-file-size", ctx.cfg.Reconcile.MaxFileSize, "Maximum size of each input file in bytes")
	flags.DurationVar(&ctx.cfg.Reconcile.Timeout, "timeout", ctx.cfg.Reconcile.Timeout, "Maximum duration of a run")
	flags.StringVarP(&ctx.cfg.Reconcile.Delimiter, "delimiter", "d", ctx.cfg.Reconcile.Delimiter, `Field separator for input and output files ("tab" for \t)`)
	flags.BoolVar(&ctx.cfg.Reconcile.CleanCells, "clean-cells", ctx.cfg.Reconcile.CleanCells, `Trim cells and strip Excel ="..." wrappers before matching`)
	flags.BoolVar(&ctx.cfg.Reconcile.CRLF, "crlf", ctx.cfg.Reconcile.CRLF, `Write output files with \r\n line endings`)

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newHeadersCommand(ctx))

	return rootCmd
}
