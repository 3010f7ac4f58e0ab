// Package cmd provides the command-line interface for the notes site.
//
// Configuration System:
//
//	Settings are resolved with clear precedence:
//	1. Command-line flags (--log-level, --port, etc.) - highest priority
//	2. Individual environment variables (NOTES_SERVER_PORT, etc.)
//	3. The configuration file (notes.yml, --config or NOTES_CONFIG_FILE)
//	4. The site's built-in defaults - lowest priority
//
// Environment Variables:
//
//	NOTES_CONFIG_FILE: Path to a custom configuration file
//	NOTES_BASEURL: Override the base URL
//	NOTES_SERVER_PORT: Override the dev server port
//	And more following the NOTES_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/logging"
)

// ConfigFileEnv names a config file when --config is not given.
const ConfigFileEnv = "NOTES_CONFIG_FILE"

var (
	cfgFile string
	// configErr is set when an explicitly named config file cannot be read.
	configErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "Build and serve the developer notes site",
	Long: `notes renders a documentation site from a tree of markdown notes:
a landing page with the site's features and stats, one page per note with a
sidebar, and a checked link graph.

Quick Start:
  notes serve                     Start the development server
  notes build                     Write the static site to build/
  notes preview /docs/nodejs/introduction
                                  Read a page in the terminal
  notes config show               Print the effective configuration`,
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is notes.yml, can also use "+ConfigFileEnv+")")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")
}

// wordSepNormalizeFunc accepts "_" and "." as word separators in flag
// names, so --log_level and --no.watch mean --log-level and --no-watch.
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.NewReplacer("_", "-", ".", "-").Replace(name))
}

// initConfig points viper at the config file and the environment.
//
// The config file is, in order: the --config flag, the NOTES_CONFIG_FILE
// environment variable, or notes.yml in the working directory. A missing
// default file is fine; a missing named file is an error.
func initConfig() {
	configErr = nil

	explicit := cfgFile
	if explicit == "" {
		explicit = os.Getenv(ConfigFileEnv)
	}
	if explicit != "" {
		viper.SetConfigFile(explicit)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("notes")
	}

	if err := config.ConfigureEnv(viper.GetViper()); err != nil {
		configErr = err
		return
	}
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		configErr = err
		return
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !stderrors.As(err, &notFound) {
			configErr = errors.NewConfigError(errors.ErrCodeConfigLoad,
				fmt.Sprintf("reading config file: %v", err))
		}
	}
}

// loadConfig returns the effective, validated configuration.
func loadConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	return config.LoadFrom(viper.GetViper())
}

// reloadConfig re-reads the config file, for the dev server.
func reloadConfig() (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigLoad, fmt.Sprintf("reading config file: %v", err))
	}
	return config.LoadFrom(viper.GetViper())
}

// projectRoot is the directory paths in the configuration are relative to:
// the config file's directory, or the working directory.
func projectRoot() string {
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return filepath.Dir(used)
		}
	}
	return ""
}

// newLogger builds the logger described by cfg, writing to the command's
// error stream.
func newLogger(cmd *cobra.Command, cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    cmd.ErrOrStderr(),
		Component: "notes",
	}), nil
}
