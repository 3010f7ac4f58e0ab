package components

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/config"
)

// Stylesheet paths, relative to the site root.
const (
	CustomCSSPath = "/css/custom.css"
	SyntaxCSSPath = "/css/syntax.css"
)

// LiveReloadPath is the websocket endpoint the dev server listens on.
const LiveReloadPath = "/ws"

// Routes resolves the navbar's doc and sidebar references to page routes.
type Routes interface {
	DocRoute(id string) (string, bool)
	SidebarRoute(sidebarID string) (string, bool)
}

// PageMeta describes the document around a page body.
type PageMeta struct {
	Title       string
	Description string
	Route       string
	// Year replaces {year} in the footer copyright. Zero means the current year.
	Year       int
	Routes     Routes
	LiveReload bool
}

func (m PageMeta) year() int {
	if m.Year != 0 {
		return m.Year
	}
	return time.Now().Year()
}

// Layout wraps body in the site document: head, navbar and footer.
func Layout(meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg := config.FromContext(ctx)

		title := meta.Title
		if title == "" {
			title = cfg.Title
		}
		description := meta.Description
		if description == "" {
			description = cfg.Tagline
		}

		hw := newWriter(w)
		hw.raw(`<!doctype html><html`)
		hw.attr("lang", cfg.I18n.DefaultLocale)
		hw.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.text(title)
		hw.raw(`</title><meta name="description"`)
		hw.attr("content", description)
		hw.raw(`><meta property="og:title"`)
		hw.attr("content", title)
		hw.raw(`>`)
		if image := socialImage(cfg); image != "" {
			hw.raw(`<meta property="og:image"`)
			hw.attr("content", image)
			hw.raw(`>`)
		}
		if cfg.Favicon != "" {
			hw.raw(`<link rel="icon"`)
			hw.href(rootPath(cfg.Favicon))
			hw.raw(`>`)
		}
		hw.raw(`<link rel="stylesheet"`)
		hw.href(CustomCSSPath)
		hw.raw(`><link rel="stylesheet"`)
		hw.href(SyntaxCSSPath)
		hw.raw(`></head><body>`)
		hw.render(ctx, Navbar(meta.Routes))
		hw.render(ctx, body)
		hw.render(ctx, Footer(meta.year()))
		if meta.LiveReload {
			hw.raw(LiveReloadScript)
		}
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// Navbar renders the configured logo, title and items. Items are kept in
// configured order within their left or right group.
func Navbar(routes Routes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg := config.FromContext(ctx)
		nav := cfg.ThemeConfig.Navbar

		hw := newWriter(w)
		hw.raw(`<nav class="navbar"><div class="navbar__inner"><div class="navbar__items">`)
		hw.raw(`<a class="navbar__brand" href="/">`)
		if nav.Logo.Src != "" {
			hw.raw(`<img class="navbar__logo"`)
			hw.attr("src", rootPath(nav.Logo.Src))
			hw.attr("alt", nav.Logo.Alt)
			hw.raw(`>`)
		}
		if nav.Title != "" {
			hw.raw(`<b class="navbar__title">`)
			hw.text(nav.Title)
			hw.raw(`</b>`)
		}
		hw.raw(`</a>`)
		for _, item := range nav.Items {
			if item.Position != "right" {
				hw.link("navbar__item navbar__link", navTarget(cfg, routes, item), item.Label)
			}
		}
		hw.raw(`</div><div class="navbar__items navbar__items--right">`)
		for _, item := range nav.Items {
			if item.Position == "right" {
				hw.link("navbar__item navbar__link", navTarget(cfg, routes, item), item.Label)
			}
		}
		hw.raw(`</div></div></nav>`)
		return hw.err
	})
}

// navTarget resolves a navbar item to its link. Unresolvable doc references
// fall back to the docs root, which the link checker then reports if absent.
func navTarget(cfg *config.Config, routes Routes, item config.NavItem) string {
	switch item.Type {
	case config.NavItemDocSidebar:
		if routes != nil {
			if route, ok := routes.SidebarRoute(item.SidebarID); ok {
				return route
			}
		}
		return cfg.DocsRouteBase()
	case config.NavItemDoc:
		if routes != nil {
			if route, ok := routes.DocRoute(item.DocID); ok {
				return route
			}
		}
		return cfg.DocsRouteBase() + "/" + item.DocID
	}
	if item.To != "" {
		return item.To
	}
	return item.Href
}

// Footer renders the link groups and the copyright line, with {year}
// replaced by year.
func Footer(year int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		footer := config.FromContext(ctx).ThemeConfig.Footer

		hw := newWriter(w)
		hw.raw(`<footer`)
		hw.attr("class", classes("footer", footerStyle(footer.Style)))
		hw.raw(`><div class="container"><div class="row footer__links">`)
		for _, group := range footer.Links {
			hw.raw(`<div class="col footer__col"><div class="footer__title">`)
			hw.text(group.Title)
			hw.raw(`</div><ul class="footer__items">`)
			for _, item := range group.Items {
				hw.raw(`<li class="footer__item">`)
				hw.link("footer__link-item", item.Target(), item.Label)
				hw.raw(`</li>`)
			}
			hw.raw(`</ul></div>`)
		}
		hw.raw(`</div>`)
		if footer.Copyright != "" {
			hw.raw(`<div class="footer__copyright">`)
			hw.text(strings.ReplaceAll(footer.Copyright, "{year}", strconv.Itoa(year)))
			hw.raw(`</div>`)
		}
		hw.raw(`</div></footer>`)
		return hw.err
	})
}

func footerStyle(style string) string {
	if style == "" {
		return ""
	}
	return "footer--" + style
}

// rootPath makes a static asset path root-relative.
func rootPath(p string) string {
	if p == "" || isAbsoluteURL(p) || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// socialImage is the absolute URL of the social card, which crawlers
// require.
func socialImage(cfg *config.Config) string {
	image := cfg.ThemeConfig.Image
	if image == "" || isAbsoluteURL(image) {
		return image
	}
	base := cfg.BaseURL
	if base == "" {
		base = "/"
	}
	return strings.TrimSuffix(cfg.URL, "/") + base + strings.TrimPrefix(image, "/")
}

func isAbsoluteURL(s string) bool {
	return strings.Contains(s, "://")
}

// LiveReloadScript reloads the page when the dev server announces a rebuild.
const LiveReloadScript = `<script>(function(){` +
	`var p=location.protocol==="https:"?"wss://":"ws://";` +
	`function connect(){var ws=new WebSocket(p+location.host+"` + LiveReloadPath + `");` +
	`ws.onmessage=function(e){try{if(JSON.parse(e.data).type==="reload"){location.reload();}}catch(_){}};` +
	`ws.onclose=function(){setTimeout(connect,1000);};}` +
	`connect();})();</script>`
