package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the site configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file, NOTES_*
environment variables and flags have been merged.

Examples:
  notes config show                # YAML
  notes config show --format json  # JSON`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Check the configuration and list every error and warning with hints.
Exits non-zero when there are errors.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configFormat string

var errorColor = color.New(color.FgRed, color.Bold)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configValidateCmd)

	configShowCmd.Flags().StringVarP(&configFormat, "format", "f", "yaml", "output format (yaml, json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := config.ValidateWithDetails(cfg)

	for _, e := range result.Errors {
		errorColor.Fprint(out, "error ")
		fmt.Fprintf(out, "%s: %s\n", e.Field, e.Message)
		for _, hint := range e.Suggestions {
			dimColor.Fprintf(out, "      hint: %s\n", hint)
		}
	}
	for _, w := range result.Warnings {
		warnColor.Fprint(out, "warning ")
		fmt.Fprintf(out, "%s: %s\n", w.Field, w.Message)
		for _, hint := range w.Suggestions {
			dimColor.Fprintf(out, "      hint: %s\n", hint)
		}
	}

	if result.HasErrors() {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("%d configuration error(s)", len(result.Errors)))
	}

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "defaults"
	}
	successColor.Fprint(out, "valid ")
	fmt.Fprintln(out, source)
	return nil
}
