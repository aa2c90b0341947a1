// Package cmd implements the projector CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nuhgnoej/rofle/internal/calculation"
	"github.com/nuhgnoej/rofle/internal/config"
	"github.com/nuhgnoej/rofle/internal/logging"
	"github.com/nuhgnoej/rofle/internal/store"
)

var (
	flagConfig    string
	flagDBPath    string
	flagFormat    string
	flagOutputDir string
	flagLogLevel  string
	flagDebug     bool
)

// Populated by PersistentPreRunE for every command.
var (
	settings config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "projector",
	Short:             "Month-by-month net worth projection until retirement",
	Long:              "Project income, loan repayment, savings and net worth from today until retirement.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.SettingsPath(), "Settings file (TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Profile database path (overrides settings)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format (console, json, csv, monthly-csv, loans-csv)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for saved reports")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every projected year")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadSettings(flagConfig)
	if err != nil {
		return err
	}

	if flagDBPath != "" {
		cfg.General.DBPath = flagDBPath
	}
	if flagFormat != "" {
		cfg.General.DefaultFormat = flagFormat
	}
	if flagOutputDir != "" {
		cfg.General.OutputDir = flagOutputDir
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagDebug {
		cfg.Engine.Debug = true
		if flagLogLevel == "" {
			cfg.Log.Level = "debug"
		}
	}

	l, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	settings = cfg
	logger = l.Named(cmd.Name())
	return nil
}

// newEngine builds an engine configured from the settings.
func newEngine() (*calculation.ProjectionEngine, error) {
	unknown, err := calculation.ParseUnknownMethodPolicy(settings.Engine.UnknownMethodPolicy)
	if err != nil {
		return nil, err
	}
	netWorth, err := calculation.ParseNetWorthPolicy(settings.Engine.NetWorth)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewProjectionEngine()
	engine.UnknownMethodPolicy = unknown
	engine.NetWorthPolicy = netWorth
	engine.Debug = settings.Engine.Debug
	engine.SetLogger(logger.Sugar())
	return engine, nil
}

func openStore() (*store.Store, error) {
	s, err := store.Open(settings.General.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening profile store: %w", err)
	}
	return s, nil
}
