// Package build renders the whole site and writes it out as static files.
package build

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"

	"github.com/venkatarajeshjakka/notes/internal/assets"
	"github.com/venkatarajeshjakka/notes/internal/components"
	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/docs"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/linkcheck"
	"github.com/venkatarajeshjakka/notes/internal/logging"
)

// Options tune a Generator.
type Options struct {
	// Root is the project directory the docs, static and stylesheet paths
	// are relative to. Empty means the working directory.
	Root string
	// LiveReload injects the dev server's reload script into every page.
	LiveReload bool
	// Year is substituted for {year} in the footer. Zero means this year.
	Year int
	// Workers bounds concurrent page rendering. Zero means GOMAXPROCS.
	Workers int
}

// Result summarizes a build written to disk.
type Result struct {
	OutDir   string
	Pages    int
	Files    int
	Bytes    int64
	Duration time.Duration
	Warnings []string
}

// Generator turns the configuration, the content registry and the docs
// tree into a Site.
type Generator struct {
	cfg    *config.Config
	logger logging.Logger
	opts   Options
}

// NewGenerator returns a generator for cfg.
func NewGenerator(cfg *config.Config, logger logging.Logger, opts Options) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{cfg: cfg, logger: logger.WithComponent("build"), opts: opts}
}

func (g *Generator) path(p string) string {
	if filepath.IsAbs(p) || g.opts.Root == "" {
		return p
	}
	return filepath.Join(g.opts.Root, p)
}

// DocsDir is the docs directory the generator reads.
func (g *Generator) DocsDir() string { return g.path(g.cfg.DocsDir()) }

// StaticDir is the user static directory, or "" when none is configured.
func (g *Generator) StaticDir() string {
	if g.cfg.Build.StaticDir == "" {
		return ""
	}
	return g.path(g.cfg.Build.StaticDir)
}

// pageJob is one page to render.
type pageJob struct {
	route     string
	component templ.Component
	html      []byte
}

// Render builds the whole site in memory: it loads the docs, renders every
// page, checks links under the configured policies and applies the base URL.
func (g *Generator) Render(ctx context.Context) (*Site, error) {
	cfg := g.cfg
	ctx = config.NewContext(ctx, cfg)
	warnings := errors.NewErrorCollector()

	set, err := docs.Load(ctx, g.DocsDir(), cfg.DocsRouteBase(), docs.Options{
		SidebarID: cfg.Classic().Docs.SidebarID,
		Logger:    g.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("loading docs: %w", err)
	}

	var mdFindings []linkcheck.Finding
	for _, bl := range set.BrokenLinks() {
		mdFindings = append(mdFindings, linkcheck.Finding{
			Kind:   linkcheck.KindMarkdown,
			Page:   bl.Doc.Route,
			Source: bl.Doc.SourcePath,
			Target: bl.Target,
		})
	}
	if err := g.applyPolicy(ctx, cfg.OnBrokenMarkdownLinks, mdFindings, warnings); err != nil {
		return nil, err
	}

	site := newSite(cfg.BaseURL)
	if err := g.addFiles(site); err != nil {
		return nil, err
	}

	jobs := g.pages(set)
	if err := g.renderPages(ctx, jobs); err != nil {
		return nil, err
	}

	checker := linkcheck.NewChecker()
	for _, job := range jobs {
		if job.route != NotFoundRoute {
			checker.Add(job.route)
		}
	}
	for p := range site.files {
		checker.Add(p)
	}
	// The files below are added after the check, and may be linked.
	checker.Add("/sitemap.xml")
	checker.Add("/robots.txt")
	// Unresolved markdown links were already reported under their own policy.
	for _, f := range mdFindings {
		if target, internal := linkcheck.Resolve(f.Page, f.Target); internal {
			checker.Add(target)
		}
	}

	var findings []linkcheck.Finding
	for _, job := range jobs {
		found, err := checker.Check(job.route, job.html)
		if err != nil {
			return nil, errors.NewBuildError(errors.ErrCodeRenderFailed, "checking links", err).WithRoute(job.route)
		}
		findings = append(findings, found...)
	}
	if err := g.applyPolicy(ctx, cfg.OnBrokenLinks, findings, warnings); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		page, err := rewriteBase(job.html, cfg.BaseURL)
		if err != nil {
			return nil, errors.NewBuildError(errors.ErrCodeRenderFailed, "rewriting links", err).WithRoute(job.route)
		}
		site.pages[job.route] = page
	}

	routes := site.Routes()
	site.files["/sitemap.xml"] = sitemap(cfg.URL, cfg.BaseURL, routes)
	site.files["/robots.txt"] = robots(cfg.URL, cfg.BaseURL)

	for _, w := range warnings.GetErrors() {
		site.Warnings = append(site.Warnings, w.Error())
	}
	return site, nil
}

// pages lists every page of the site: home, one per doc and the 404 page.
func (g *Generator) pages(set *docs.Set) []*pageJob {
	meta := components.PageMeta{
		Year:       g.opts.Year,
		Routes:     set,
		LiveReload: g.opts.LiveReload,
	}

	jobs := []*pageJob{{route: "/", component: components.HomePage(g.cfg, meta)}}

	sidebar := set.Sidebar()
	for _, doc := range set.Docs() {
		prev, next := set.Neighbors(doc.ID)
		jobs = append(jobs, &pageJob{
			route:     doc.Route,
			component: components.DocPage(meta, doc, sidebar, prev, next),
		})
	}

	return append(jobs, &pageJob{route: NotFoundRoute, component: components.NotFoundPage(meta)})
}

func (g *Generator) renderPages(ctx context.Context, jobs []*pageJob) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)

	for _, job := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := job.component.Render(egCtx, &buf); err != nil {
				return errors.NewBuildError(errors.ErrCodeRenderFailed, "rendering page", err).WithRoute(job.route)
			}
			job.html = buf.Bytes()
			return nil
		})
	}
	return eg.Wait()
}

// applyPolicy reports findings under policy. Findings that are only logged
// are also kept as warnings for the build summary.
func (g *Generator) applyPolicy(ctx context.Context, policy string, findings []linkcheck.Finding, warnings *errors.ErrorCollector) error {
	if err := linkcheck.Apply(ctx, policy, findings, g.logger); err != nil {
		return err
	}
	if policy == config.PolicyIgnore {
		return nil
	}
	for _, f := range findings {
		warnings.Add(errors.BuildError{
			Route:    f.Page,
			File:     f.Source,
			Message:  fmt.Sprintf("%s -> %s", f.Kind, f.Target),
			Severity: errors.ErrorSeverityWarning,
		})
	}
	return nil
}

// addFiles collects the stylesheets and the user's static files. A
// stylesheet at the preset's customCss path replaces the embedded one.
func (g *Generator) addFiles(site *Site) error {
	custom := assets.CustomCSS()
	if p := g.cfg.Classic().Theme.CustomCSS; p != "" {
		b, err := os.ReadFile(g.path(p))
		switch {
		case err == nil:
			custom = b
		case !os.IsNotExist(err):
			return errors.NewIOError(errors.ErrCodeReadFailed, "reading custom css", err).WithFile(p, 0)
		}
	}
	site.files[components.CustomCSSPath] = custom

	syntax, err := docs.SyntaxCSS(g.cfg.ThemeConfig.Prism.Theme, g.cfg.ThemeConfig.Prism.DarkTheme)
	if err != nil {
		return errors.NewBuildError(errors.ErrCodeRenderFailed, "generating syntax css", err)
	}
	site.files[components.SyntaxCSSPath] = []byte(syntax)

	dir := g.StaticDir()
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return errors.NewIOError(errors.ErrCodeReadFailed, "reading static file", err).WithFile(p, 0)
		}
		site.files[path.Clean("/"+filepath.ToSlash(rel))] = b
		return nil
	})
}

// Build renders the site and writes it to outDir. With clean set, outDir is
// emptied first.
func (g *Generator) Build(ctx context.Context, outDir string, clean bool) (*Result, error) {
	start := time.Now()

	site, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}

	if clean {
		if err := os.RemoveAll(outDir); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeWriteFailed, "cleaning output directory", err).WithFile(outDir, 0)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeWriteFailed, "creating output directory", err).WithFile(outDir, 0)
	}

	result := &Result{OutDir: outDir, Warnings: site.Warnings}

	routes := append(site.Routes(), NotFoundRoute)
	for _, route := range routes {
		page, _ := site.Page(route)
		if err := writeFile(filepath.Join(outDir, filepath.FromSlash(OutputPath(route))), page); err != nil {
			return nil, err
		}
		result.Pages++
		result.Bytes += int64(len(page))
	}
	for _, p := range site.Files() {
		b, _ := site.File(p)
		if err := writeFile(filepath.Join(outDir, filepath.FromSlash(p)), b); err != nil {
			return nil, err
		}
		result.Files++
		result.Bytes += int64(len(b))
	}

	result.Duration = time.Since(start)
	g.logger.Info(ctx, "site built",
		"out", outDir, "pages", result.Pages, "files", result.Files,
		"bytes", result.Bytes, "duration", result.Duration)
	return result, nil
}

func writeFile(p string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed, "creating directory", err).WithFile(p, 0)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeWriteFailed, "writing file", err).WithFile(p, 0)
	}
	return nil
}
