package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"akao-hq/akao/pkg/cli"
	"akao-hq/akao/pkg/config"
	"akao-hq/akao/pkg/evaluator"
	"akao-hq/akao/pkg/history"
	"akao-hq/akao/pkg/rule"
	"akao-hq/akao/pkg/rule/loader"
	"akao-hq/akao/pkg/telemetry/logging"
	"akao-hq/akao/pkg/telemetry/metrics"
	"akao-hq/akao/pkg/trace"
	"akao-hq/akao/pkg/validator"
)

var validateFlags struct {
	rulesDir string
	format   string
	parallel bool
	noLogs   bool
	progress bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a project against its enabled rules",
	Long: `Run a full validation pass: discover the target's files, evaluate
every enabled rule against the applicable files, and report violations
with a compliance score.

Rule failures become violations, never errors; the command only fails
outright when the target or the rules directory is unusable. The exit
status is non-zero when violations were found.

Examples:
  # Validate the current directory
  akao validate

  # Validate a project with machine-readable output
  akao validate /path/to/project --format json

  # Evaluate batches concurrently
  akao validate --parallel

  # Show a progress bar for large trees
  akao validate --progress`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.rulesDir, "rules", "", "rules directory (default from settings)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, yaml")
	validateCmd.Flags().BoolVar(&validateFlags.parallel, "parallel", false, "evaluate batches concurrently")
	validateCmd.Flags().BoolVar(&validateFlags.noLogs, "no-logs", false, "skip writing the validation log under .akao/logs")
	validateCmd.Flags().BoolVar(&validateFlags.progress, "progress", false, "show a progress bar on stderr")
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	settings, err := loadSettings(target)
	if err != nil {
		return err
	}
	logger, err := newLogger(settings)
	if err != nil {
		return err
	}

	formatter, err := cli.NewFormatter(cli.OutputFormat(validateFlags.format))
	if err != nil {
		return cli.NewConfigError("--format", err.Error())
	}

	rulesDir := validateFlags.rulesDir
	if rulesDir == "" {
		rulesDir = filepath.Join(target, settings.RulesDirectory)
	}

	repo := rule.NewRepository(logger.Slog())
	parseErrors, err := repo.Scan(rulesDir)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if len(parseErrors) > 0 {
		logger.Warn("some rule files were skipped", "count", len(parseErrors))
	}

	discovery := validator.NewDiscoveryEngine(logger.Slog())
	bridge := validator.NewBridge(evaluator.NewGoEvaluator(), logger.Slog())

	pipelineCfg := validator.PipelineConfig{
		BatchSize:  settings.Pipeline.BatchSize,
		Parallel:   settings.EnableParallelExecution || validateFlags.parallel,
		MaxWorkers: settings.Pipeline.MaxWorkers,
		ExportLogs: settings.Pipeline.ExportLogs && !validateFlags.noLogs,
	}

	var progress *cli.SimpleProgress
	if validateFlags.progress {
		progress = cli.NewProgressReporter(nil)
		pipelineCfg.Progress = progress.Hook()
	}

	pipeline := validator.NewPipeline(repo, discovery, bridge, pipelineCfg, logger.Slog())

	var tracer *trace.Tracer
	if settings.Tracing.Enabled {
		tracer = trace.NewTracer(trace.Config{
			Enabled:                 true,
			OutputDirectory:         filepath.Join(target, settings.Tracing.OutputDirectory),
			PersistTraces:           settings.Tracing.PersistTraces,
			CaptureStackTrace:       settings.Tracing.CaptureStackTrace,
			CaptureContextVariables: settings.Tracing.CaptureContextVariables,
			MaxStackDepth:           settings.Tracing.MaxStackDepth,
			MaxContextVariables:     settings.Tracing.MaxContextVariables,
		}, logger.Slog())
		tracer.StartCollection(target, uuid.NewString())
		pipeline.SetTracer(tracer)
	}

	var collector *metrics.Collector
	var validationMetrics *metrics.ValidationMetrics
	if settings.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&settings.Telemetry.Metrics, nil)
		validationMetrics = collector.Validation
		available, enabled := repo.Counts()
		validationMetrics.SetRulesLoaded(available, enabled)
		pipeline.SetRecorder(validationMetrics)
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	if settings.EnableLazyLoading {
		components := loader.New(
			filepath.Join(target, settings.Loader.ComponentRoot),
			settings.Loader.CacheTTL,
			logger.Slog(),
		)
		if collector != nil {
			components.SetRecorder(collector.Cache)
		}
		pipeline.SetResolver(components)

		if settings.Loader.SweepSchedule != "" {
			maintenance := loader.NewMaintenanceScheduler(components, settings.Loader.SweepSchedule, logger.Slog())
			if err := maintenance.Start(ctx); err != nil {
				return cli.NewConfigError("loader.sweep_schedule", err.Error())
			}
			defer maintenance.Stop()
		}

		if settings.Loader.WatchFilesystem {
			watcher, werr := loader.NewChangeWatcher(components, nil, logger.Slog())
			if werr != nil {
				logger.Warn("change watcher unavailable", "error", werr)
			} else {
				go func() {
					if werr := watcher.Watch(ctx); werr != nil {
						logger.Warn("change watcher stopped", "error", werr)
					}
				}()
				defer watcher.Stop()
			}
		}
	}

	result, err := pipeline.Validate(ctx, target)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	if tracer != nil {
		tracer.EndCollection()
	}
	if validationMetrics != nil {
		for _, v := range result.Violations {
			validationMetrics.RecordViolation(v.Severity)
		}
	}

	if settings.History.Enabled {
		saveRunHistory(settings, target, result, logger)
	}

	if err := formatter.Format(os.Stdout, cli.NewReport(result)); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if !result.IsValid() {
		return fmt.Errorf("validation failed: %d violation(s) found", len(result.Violations))
	}
	return nil
}

// saveRunHistory persists the run; history failures never fail the
// validation itself.
func saveRunHistory(settings *config.Settings, target string, result *validator.ValidationResult, logger *logging.Logger) {
	store, err := history.NewSQLiteStore(history.SQLiteConfig{
		DBPath:       filepath.Join(target, settings.History.Path),
		MaxOpenConns: settings.History.MaxOpenConns,
		BusyTimeout:  settings.History.BusyTimeout,
	})
	if err != nil {
		logger.Warn("history store unavailable", "error", err)
		return
	}
	defer store.Close()

	run := history.RunFromResult(result)
	if err := store.SaveRun(context.Background(), run); err != nil {
		logger.Warn("failed to record validation run", "error", err)
		return
	}
	logger.Info("validation run recorded", "run_id", run.ID)
}
