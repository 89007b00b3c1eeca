package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/malbeclabs/sitewise-assistant/assistant/internal/app"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/logger"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/sitewise"
	"github.com/malbeclabs/sitewise-assistant/config"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// StoreFactory opens the store the commands read from.
type StoreFactory func(ctx context.Context, log *slog.Logger, region string) (sitewise.Store, error)

type Options struct {
	Version  string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	NewStore StoreFactory
}

func Run(version string) ExitCode {
	return Execute(os.Args[1:], Options{
		Version: version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewStore: func(ctx context.Context, log *slog.Logger, region string) (sitewise.Store, error) {
			return sitewise.NewClientFromEnv(ctx, log, region)
		},
	})
}

func Execute(args []string, opts Options) ExitCode {
	config.LoadDotEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(opts.Stderr, "Error:", err)
		return exitCodeError
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := NewRootCmd(cfg, opts)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// env is the per-invocation state shared by subcommands.
type env struct {
	opts Options
	cfg  *config.Config
}

func NewRootCmd(cfg *config.Config, opts Options) *cobra.Command {
	e := &env{opts: opts, cfg: cfg}

	rootCmd := &cobra.Command{
		Use:          "assistant",
		Short:        "Query industrial assets and their measurements.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}
	rootCmd.SetIn(opts.Stdin)
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "set debug logging level")
	flags.StringVarP(&cfg.Region, "region", "r", cfg.Region, "AWS region of the asset store")
	flags.Float64("tz-offset", cfg.TZOffset.Hours(), "hours from UTC used to render timestamps")
	flags.Int32Var(&cfg.QueryMaxResults, "max-results", cfg.QueryMaxResults, "maximum rows read per lookup query")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "cache asset and property lookups for this long (0 disables)")

	rootCmd.AddCommand(
		newAssetsCmd(e),
		newPropertiesCmd(e),
		newLatestCmd(e),
		newAggregateCmd(e),
		newInvokeCmd(e),
		newOpenAPICmd(e),
	)
	return rootCmd
}

func (e *env) logger() *slog.Logger {
	return logger.New(e.opts.Stderr, e.cfg.Verbose, e.opts.Stderr != io.Writer(os.Stderr))
}

func (e *env) applyFlags(cmd *cobra.Command) error {
	hours, err := cmd.Flags().GetFloat64("tz-offset")
	if err != nil {
		return fmt.Errorf("failed to get tz-offset flag: %w", err)
	}
	e.cfg.TZOffset = time.Duration(hours * float64(time.Hour))
	return nil
}

func (e *env) adapter(cmd *cobra.Command) (*assets.Adapter, error) {
	if err := e.applyFlags(cmd); err != nil {
		return nil, err
	}
	log := e.logger()
	store, err := e.opts.NewStore(cmd.Context(), log, e.cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return app.NewAdapter(log, store, e.cfg)
}

func (e *env) router(cmd *cobra.Command) (*action.Router, error) {
	adapter, err := e.adapter(cmd)
	if err != nil {
		return nil, err
	}
	return action.NewRouter(e.logger(), adapter)
}
