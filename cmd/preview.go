package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venkatarajeshjakka/notes/internal/build"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/export"
)

var previewCmd = &cobra.Command{
	Use:     "preview [route]",
	Aliases: []string{"p"},
	Short:   "Read a page of the site in the terminal",
	Long: `Render the site, convert one page back to markdown and print it styled
for the terminal. The route may include the baseUrl.

Examples:
  notes preview                           # The home page
  notes preview /docs/nodejs/introduction # A note
  notes preview --raw /docs/dotnet/middleware > middleware.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

var (
	previewStyle string
	previewWidth int
	previewRaw   bool
)

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewStyle, "style", export.DefaultStyle, "glamour style (dark, light, notty, dracula, ...)")
	previewCmd.Flags().IntVar(&previewWidth, "width", export.DefaultWidth, "wrap width in columns")
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "print markdown without terminal styling")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	route := "/"
	if len(args) == 1 {
		route = args[0]
	}
	if base := strings.TrimSuffix(cfg.BaseURL, "/"); base != "" && strings.HasPrefix(route, base+"/") {
		route = strings.TrimPrefix(route, base)
	}

	site, err := build.NewGenerator(cfg, logger, build.Options{Root: projectRoot()}).Render(cmd.Context())
	if err != nil {
		return fmt.Errorf("rendering site: %w", err)
	}

	page, isPage, ok := site.Lookup(route)
	if !ok || !isPage {
		return errors.NewBuildError(errors.ErrCodeRenderFailed, "no page at "+route, nil).WithRoute(route)
	}

	md, err := export.Markdown(page)
	if err != nil {
		return err
	}
	if !previewRaw {
		if md, err = export.Terminal(md, previewStyle, previewWidth); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), md)
	return err
}
