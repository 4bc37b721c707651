package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/killallgit/podhub/pkg/config"
	"github.com/killallgit/podhub/pkg/logging"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podhub",
	Short: "Normalized podcast feed service",
	Long: `podhub - normalized podcast feeds from a headless content API

The content API hosts feed records and raw RSS documents. podhub fetches
those documents, normalizes them into a uniform feed and episode model and
serves the result over HTTP.

Features:
  • Lenient RSS normalization with namespace-agnostic field lookup
  • Public and token-protected private feeds
  • Feed catalog with per-feed failure isolation
  • Episode lookup and download redirects`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd, nil)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(func() {
		config.SetConfigFile(configPath)
	})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default ./config/settings.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig initializes and returns the configuration. Commands call it
// lazily so help and version work without a settings file.
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}
	return config.GetConfig()
}

// setupLogging configures logrus from the flags. Settings from cfg apply
// unless the matching flag was given explicitly.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	level, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")

	if cfg != nil {
		if !cmd.Flags().Changed("log-level") && cfg.Logging.Level != "" {
			level = cfg.Logging.Level
		}
		if !cmd.Flags().Changed("json-logs") {
			jsonLogs = cfg.Logging.Format == "json"
		}
	}

	if err := logging.Setup(level, jsonLogs); err != nil {
		log.WithError(err).WithField("level", level).Warn("Unknown log level, using info")
	}
}
