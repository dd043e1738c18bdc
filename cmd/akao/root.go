package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"akao-hq/akao/pkg/cli"
	"akao-hq/akao/pkg/config"
	"akao-hq/akao/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "akao",
	Short: "Akao - rule-driven project validation",
	Long: `Akao validates a project tree against declarative rule definitions.

It discovers the project's files (honoring .gitignore and skipping
binaries), evaluates every enabled rule against the applicable files,
and reports violations with severity, suggestions, and a compliance
score. Violations can be traced to root causes and validation runs can
be persisted for later inspection.

Settings are read from <project>/.akao/settings.yaml unless --config
points elsewhere.`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "settings file path (default <target>/.akao/settings.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadSettings resolves settings for a target project: an explicit
// --config path wins, otherwise the project's own settings file (or
// defaults when absent).
func loadSettings(target string) (*config.Settings, error) {
	if cfgFile != "" {
		s, err := config.LoadWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, cli.NewConfigError(cfgFile, err.Error())
		}
		return s, nil
	}
	s, err := config.LoadProject(target)
	if err != nil {
		return nil, cli.NewConfigError(filepath.Join(target, config.SettingsFileName), err.Error())
	}
	return s, nil
}

// newLogger builds the process logger from settings; --verbose forces
// debug level.
func newLogger(settings *config.Settings) (*logging.Logger, error) {
	level := settings.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:     level,
		Format:    settings.Telemetry.Logging.Format,
		AddSource: settings.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}
