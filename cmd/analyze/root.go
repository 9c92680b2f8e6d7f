package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	service "github.com/okian/cfcoach/internal/app"
	"github.com/okian/cfcoach/internal/config"
	"github.com/okian/cfcoach/pkg/logger"
)

var version = "dev"

type analyzeOptions struct {
	at         string
	pretty     bool
	configFile string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <handle>",
		Short: "Analyze a Codeforces account",
		Long: `Analyze fetches a Codeforces account's submission history and prints
its performance report as JSON: per-topic statistics, the trailing activity
timeline, aggregate solve metrics, a training path and focus recommendations.

Configuration is read the same way as the server: defaults, then the YAML
file named by --config or CFCOACH_CONFIG, then CFCOACH_* variables.`,
		Args:         cobra.ExactArgs(1),
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.at, "at", "", "Reference time in RFC3339 (default: now)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML config file (overrides CFCOACH_CONFIG)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return cmd
}

func runAnalyze(ctx context.Context, stdout, stderr io.Writer, handle string, opts *analyzeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now()
	if opts.at != "" {
		t, err := time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("parsing --at: %w", err)
		}
		now = t
	}

	path := opts.configFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	if err := logger.InitWithOptions(cfg.LogFormat, stderr); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	if opts.debug {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Named("cli")
	runID := uuid.NewString()

	svc, closeSvc, err := service.NewFromConfig(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	log.Debug(ctx, "analyzing",
		logger.String("run_id", runID),
		logger.String("handle", handle),
		logger.String("at", now.Format(time.RFC3339)),
	)
	report, err := svc.AnalyzeAt(ctx, handle, now)
	if err != nil {
		log.Debug(ctx, "analysis failed", logger.String("run_id", runID), logger.Error(err))
		return err
	}

	enc := json.NewEncoder(stdout)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

func execute() error {
	return newRootCommand().Execute()
}
