// Package cmd implements the expiryocr command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shelfscan/expiryocr/internal/config"
	"github.com/shelfscan/expiryocr/internal/version"
)

var (
	globalConfig *config.Config
	cfgFile      string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "expiryocr",
	Short: "Expiry-date and lot-code recognition for product packaging",
	Long: `Recognize expiry dates and lot codes from cropped packaging photos.

The pipeline splits a crop into text lines, normalizes geometry and
lighting, recognizes an ensemble of photometric variants per line, and
selects and corrects the best reading.

Examples:
  expiryocr image crop.jpg
  expiryocr batch ./crops --recursive --format json`,
	Version:      versionString(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func versionString() string {
	v, commit, date := version.Info()
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default search: ., ~/.config/expiryocr, /etc/expiryocr)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if globalConfig == nil {
			initConfig()
		}
		setupLogging(cmd)
	}
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	} else {
		switch globalConfig.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if globalConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// initConfig reads the config file and environment.
func initConfig() {
	loader := config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = loader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = loader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}

// ResetConfig drops the cached configuration and viper state so the next
// GetConfig reloads from scratch. Integration tests call this between
// scenarios; the global viper would otherwise keep the previous scenario's
// config file and overrides.
func ResetConfig() {
	globalConfig = nil
	cfgFile = ""
	viper.Reset()
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}
