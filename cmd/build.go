package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/venkatarajeshjakka/notes/internal/build"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the static site",
	Long: `Render every page of the site, check its links and write the result to
the output directory, ready to be published under the configured baseUrl.

Examples:
  notes build                     # Build into build/
  notes build --out public        # Build to a specific output directory
  notes build --clean             # Empty the output directory first`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var (
	buildOutput string
	buildClean  bool
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "out", "o", "", "output directory (default is build.outDir)")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "remove the output directory before building")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	root := projectRoot()
	outDir := buildOutput
	if outDir == "" {
		outDir = cfg.Build.OutDir
		if root != "" && !filepath.IsAbs(outDir) {
			outDir = filepath.Join(root, outDir)
		}
	}

	gen := build.NewGenerator(cfg, logger, build.Options{Root: root})
	result, err := gen.Build(cmd.Context(), outDir, buildClean)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		warnColor.Fprintf(out, "warning: %s\n", w)
	}
	successColor.Fprint(out, "Built ")
	fmt.Fprintf(out, "%d pages and %d files (%s) in %s\n",
		result.Pages, result.Files, humanize.Bytes(uint64(result.Bytes)), result.Duration.Round(1e6))
	dimColor.Fprintf(out, "  output: %s\n", result.OutDir)
	return nil
}
