// Package docs loads the markdown documentation tree: front matter, routes,
// rendered HTML and the sidebar order.
package docs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/logging"
)

// Doc is one rendered documentation page.
type Doc struct {
	ID           string
	Route        string
	Title        string
	SidebarLabel string
	// Position orders the doc inside its category; docs without an explicit
	// sidebar_position sort after positioned ones.
	Position    float64
	Positioned  bool
	Description string
	Category    string
	HTML        string
	// HasHeading is set when the body starts its own h1, so the page
	// should not add another.
	HasHeading bool
	Links      []MarkdownLink
	SourcePath string
}

// Label is the text shown for the doc in the sidebar.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// MarkdownLink is a link from a doc to another markdown file.
type MarkdownLink struct {
	Target string
	Route  string
	Broken bool
}

// Options control how a docs tree is loaded.
type Options struct {
	// SidebarID names the sidebar built from the tree.
	SidebarID string
	Logger    logging.Logger
}

// source is a doc file between parsing its header and rendering its body.
type source struct {
	relPath string
	absPath string
	front   FrontMatter
	body    []byte
	doc     *Doc
}

// Load reads every *.md and *.mdx file below dir. routeBase is the route
// prefix of the docs, e.g. "/docs". A missing dir yields an empty set.
func Load(ctx context.Context, dir, routeBase string, opts Options) (*Set, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("docs")

	set := newSet(dir, routeBase, opts.SidebarID)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug(ctx, "docs directory not found, no docs will be built", "dir", dir)
		return set, nil
	}

	sources, err := readSources(dir)
	if err != nil {
		return nil, err
	}

	byPath := make(map[string]*Doc, len(sources))
	for _, src := range sources {
		if src.front.Draft {
			logger.Debug(ctx, "skipping draft", "file", src.relPath)
			continue
		}
		doc := newDoc(src, routeBase)
		if existing, ok := set.byRoute[doc.Route]; ok {
			return nil, errors.NewContentError(errors.ErrCodeDuplicateRoute,
				fmt.Sprintf("route %s is produced by both %s and %s", doc.Route, existing.SourcePath, doc.SourcePath), nil).
				WithRoute(doc.Route).WithFile(doc.SourcePath, 0)
		}
		src.doc = doc
		set.add(doc)
		byPath[src.relPath] = doc
	}

	resolve := func(target string) (string, bool) {
		if doc, ok := byPath[target]; ok {
			return doc.Route, true
		}
		return "", false
	}

	md := newMarkdown()
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if src.doc == nil {
			continue
		}
		out, err := render(md, src.body, src.relPath, resolve)
		if err != nil {
			return nil, errors.NewContentError(errors.ErrCodeMarkdown, "rendering markdown", err).
				WithFile(src.absPath, 0)
		}
		doc := src.doc
		doc.HTML = out.html
		doc.Links = out.links
		doc.HasHeading = out.heading != ""
		if doc.Title == "" {
			doc.Title = out.heading
		}
		if doc.Title == "" {
			doc.Title = titleFromName(path.Base(doc.ID))
		}
	}

	categories, err := readCategories(dir)
	if err != nil {
		return nil, err
	}
	set.categories = categories

	logger.Debug(ctx, "loaded docs", "dir", dir, "count", len(set.docs))
	return set, nil
}

// readSources reads and splits every doc file below dir, in path order.
func readSources(dir string) ([]*source, error) {
	var sources []*source
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".md" && ext != ".mdx" {
			return nil
		}
		if strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return errors.NewIOError(errors.ErrCodeReadFailed, "reading doc", err).WithFile(p, 0)
		}

		header, body := splitFrontMatter(raw)
		front, err := parseFrontMatter(header)
		if err != nil {
			return errors.NewContentError(errors.ErrCodeFrontMatter, "invalid front matter", err).WithFile(p, 1)
		}
		if ext == ".mdx" {
			body = stripImports(body)
		}

		sources = append(sources, &source{
			relPath: filepath.ToSlash(rel),
			absPath: p,
			front:   front,
			body:    body,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].relPath < sources[j].relPath })
	return sources, nil
}

func newDoc(src *source, routeBase string) *Doc {
	fm := src.front
	dir := path.Dir(src.relPath)
	if dir == "." {
		dir = ""
	}

	name := strings.TrimSuffix(path.Base(src.relPath), path.Ext(src.relPath))
	if fm.ID != "" {
		name = fm.ID
	}
	id := path.Join(dir, name)

	doc := &Doc{
		ID:           id,
		Route:        docRoute(routeBase, dir, name, fm.Slug),
		Title:        fm.Title,
		SidebarLabel: fm.SidebarLabel,
		Description:  fm.Description,
		Category:     firstSegment(dir),
		SourcePath:   src.absPath,
	}
	if fm.SidebarPosition != nil {
		doc.Position = *fm.SidebarPosition
		doc.Positioned = true
	}
	return doc
}

// docRoute returns the page route of a doc. An absolute slug replaces the
// path below routeBase, a relative one replaces the file name. index and
// README files stand for their directory.
func docRoute(routeBase, dir, name, slug string) string {
	base := strings.TrimSuffix(routeBase, "/")
	switch {
	case strings.HasPrefix(slug, "/"):
		return cleanRoute(base + slug)
	case slug != "":
		return cleanRoute(base + "/" + path.Join(dir, slug))
	case strings.EqualFold(name, "index") || strings.EqualFold(name, "readme"):
		return cleanRoute(base + "/" + dir)
	default:
		return cleanRoute(base + "/" + path.Join(dir, name))
	}
}

func cleanRoute(r string) string {
	r = path.Clean("/" + r)
	return r
}

func firstSegment(dir string) string {
	if dir == "" {
		return ""
	}
	first, _, _ := strings.Cut(dir, "/")
	return first
}

// titleFromName turns a file or directory name like "jwt-token" into
// "Jwt Token".
func titleFromName(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(name)
}
