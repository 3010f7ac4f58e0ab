package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/docs"
)

// DocPage is the full document of one doc: the sidebar next to the rendered
// article, with links to the previous and next docs.
func DocPage(meta PageMeta, doc *docs.Doc, sidebar []docs.Category, prev, next *docs.Doc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg := config.FromContext(ctx)
		meta.Title = doc.Title + " | " + cfg.Title
		meta.Description = doc.Description
		meta.Route = doc.Route
		return Layout(meta, docBody(doc, sidebar, prev, next)).Render(ctx, w)
	})
}

func docBody(doc *docs.Doc, sidebar []docs.Category, prev, next *docs.Doc) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<div class="doc-page"><aside class="doc-sidebar">`)
		hw.render(ctx, Sidebar(sidebar, doc.Route))
		hw.raw(`</aside><main class="doc-main"><article class="markdown">`)
		if !doc.HasHeading {
			hw.raw(`<h1>`)
			hw.text(doc.Title)
			hw.raw(`</h1>`)
		}
		hw.render(ctx, templ.Raw(doc.HTML))
		hw.raw(`</article>`)
		if prev != nil || next != nil {
			hw.raw(`<nav class="pagination-nav" aria-label="Docs pages">`)
			if prev != nil {
				hw.raw(`<a class="pagination-nav__link pagination-nav__link--prev"`)
				hw.href(prev.Route)
				hw.raw(`><div class="pagination-nav__sublabel">Previous</div><div class="pagination-nav__label">`)
				hw.text(prev.Label())
				hw.raw(`</div></a>`)
			}
			if next != nil {
				hw.raw(`<a class="pagination-nav__link pagination-nav__link--next"`)
				hw.href(next.Route)
				hw.raw(`><div class="pagination-nav__sublabel">Next</div><div class="pagination-nav__label">`)
				hw.text(next.Label())
				hw.raw(`</div></a>`)
			}
			hw.raw(`</nav>`)
		}
		hw.raw(`</main></div>`)
		return hw.err
	})
}

// Sidebar renders the docs menu, marking the entry for active as current.
func Sidebar(categories []docs.Category, active string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<nav class="menu" aria-label="Docs sidebar"><ul class="menu__list">`)
		for _, cat := range categories {
			if cat.Label != "" {
				hw.raw(`<li class="menu__list-item"><div class="menu__category">`)
				hw.text(cat.Label)
				hw.raw(`</div><ul class="menu__list">`)
			}
			for _, doc := range cat.Docs {
				hw.raw(`<li class="menu__list-item"><a`)
				if doc.Route == active {
					hw.attr("class", "menu__link menu__link--active")
					hw.raw(` aria-current="page"`)
				} else {
					hw.attr("class", "menu__link")
				}
				hw.href(doc.Route)
				hw.raw(`>`)
				hw.text(doc.Label())
				hw.raw(`</a></li>`)
			}
			if cat.Label != "" {
				hw.raw(`</ul></li>`)
			}
		}
		hw.raw(`</ul></nav>`)
		return hw.err
	})
}

// NotFoundPage is served for unknown routes.
func NotFoundPage(meta PageMeta) templ.Component {
	meta.Title = "Page Not Found"
	meta.Description = "We could not find what you were looking for."
	return Layout(meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<main class="container margin-vert--xl"><h1 class="hero__title">Page Not Found</h1>`)
		hw.raw(`<p>We could not find what you were looking for.</p><p><a href="/">Back to the home page</a></p></main>`)
		return hw.err
	}))
}
