package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/docs"
)

type fakeRoutes map[string]string

func (f fakeRoutes) DocRoute(id string) (string, bool) {
	r, ok := f["doc:"+id]
	return r, ok
}

func (f fakeRoutes) SidebarRoute(id string) (string, bool) {
	r, ok := f["sidebar:"+id]
	return r, ok
}

func TestLayout(t *testing.T) {
	body := templ.Raw(`<p id="body">hello</p>`)
	out := renderString(t, siteContext(), Layout(PageMeta{Title: "Custom", Year: 2031}, body))

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.NotContains(t, out, "WebSocket")

	doc := parse(t, out)
	assert.Equal(t, "en", attr(findAll(doc, byTag("html"))[0], "lang"))
	assert.Equal(t, "Custom", textOf(findAll(doc, byTag("title"))[0]))

	var stylesheets []string
	for _, l := range findAll(doc, byTag("link")) {
		if attr(l, "rel") == "stylesheet" {
			stylesheets = append(stylesheets, attr(l, "href"))
		}
	}
	assert.Equal(t, []string{"/css/custom.css", "/css/syntax.css"}, stylesheets)

	var ogImage string
	for _, m := range findAll(doc, byTag("meta")) {
		if attr(m, "property") == "og:image" {
			ogImage = attr(m, "content")
		}
	}
	assert.Equal(t, "https://venkatarajeshjakka.github.io/notes/img/social-card.jpg", ogImage)

	copyright := findAll(doc, byClass("footer__copyright"))
	require.Len(t, copyright, 1)
	assert.Equal(t, "Copyright © 2031 Venkata Rajesh Jakka. Built with Go and templ.", textOf(copyright[0]))

	assert.Len(t, findAll(doc, func(n *html.Node) bool { return attr(n, "id") == "body" }), 1)
}

func TestLayout_DefaultsToSiteTitle(t *testing.T) {
	doc := parse(t, renderString(t, siteContext(), Layout(PageMeta{}, nil)))
	assert.Equal(t, "Venkata Rajesh Jakka", textOf(findAll(doc, byTag("title"))[0]))
}

func TestLayout_LiveReload(t *testing.T) {
	out := renderString(t, siteContext(), Layout(PageMeta{LiveReload: true}, nil))
	assert.Contains(t, out, "new WebSocket")
	assert.Contains(t, out, `"/ws"`)
}

func TestNavbar(t *testing.T) {
	routes := fakeRoutes{"sidebar:tutorialSidebar": "/docs/nodejs/introduction"}
	doc := parse(t, renderString(t, siteContext(), Navbar(routes)))

	items := findAll(doc, byClass("navbar__item"))
	require.Len(t, items, 2)

	assert.Equal(t, "Notes", textOf(items[0]))
	assert.Equal(t, "/docs/nodejs/introduction", attr(items[0], "href"))
	assert.False(t, hasAttr(items[0], "target"))

	assert.Equal(t, "GitHub", textOf(items[1]))
	assert.Equal(t, "https://github.com/venkatarajeshjakka/notes", attr(items[1], "href"))
	assert.Equal(t, "_blank", attr(items[1], "target"))

	right := findAll(doc, byClass("navbar__items--right"))
	require.Len(t, right, 1)
	assert.Len(t, findAll(right[0], byClass("navbar__item")), 1)

	logo := findAll(doc, byClass("navbar__logo"))
	require.Len(t, logo, 1)
	assert.Equal(t, "/img/logo.svg", attr(logo[0], "src"))
	assert.Equal(t, "My Site Logo", attr(logo[0], "alt"))
	assert.Empty(t, findAll(doc, byClass("navbar__title")))
}

func TestNavbar_Fallbacks(t *testing.T) {
	cfg := config.Default()
	cfg.ThemeConfig.Navbar.Title = "Notes"
	cfg.ThemeConfig.Navbar.Items = []config.NavItem{
		{Type: config.NavItemDocSidebar, SidebarID: "missing", Label: "Docs"},
		{Type: config.NavItemDoc, DocID: "dotnet/middleware", Label: "Middleware"},
		{Type: config.NavItemDoc, DocID: "nodejs/introduction", Label: "Intro"},
		{To: "/blog", Label: "Blog"},
	}
	ctx := config.NewContext(context.Background(), cfg)
	routes := fakeRoutes{"doc:nodejs/introduction": "/docs/start"}

	doc := parse(t, renderString(t, ctx, Navbar(routes)))
	items := findAll(doc, byClass("navbar__item"))
	require.Len(t, items, 4)

	var hrefs []string
	for _, item := range items {
		hrefs = append(hrefs, attr(item, "href"))
	}
	assert.Equal(t, []string{"/docs", "/docs/dotnet/middleware", "/docs/start", "/blog"}, hrefs)
	assert.Equal(t, "Notes", textOf(findAll(doc, byClass("navbar__title"))[0]))
}

func TestFooter(t *testing.T) {
	doc := parse(t, renderString(t, siteContext(), Footer(2025)))

	footers := findAll(doc, byTag("footer"))
	require.Len(t, footers, 1)
	assert.Equal(t, "footer footer--dark", attr(footers[0], "class"))

	titles := findAll(doc, byClass("footer__title"))
	require.Len(t, titles, 2)
	assert.Equal(t, "Documentation", textOf(titles[0]))
	assert.Equal(t, "More", textOf(titles[1]))

	links := findAll(doc, byClass("footer__link-item"))
	require.Len(t, links, 3)
	assert.Equal(t, "/docs/nodejs/introduction", attr(links[0], "href"))
	assert.Equal(t, "/docs/dotnet/middleware", attr(links[1], "href"))
	assert.Equal(t, "_blank", attr(links[2], "target"))
}

func TestDocPage(t *testing.T) {
	intro := &docs.Doc{ID: "nodejs/introduction", Route: "/docs/nodejs/introduction", Title: "Introduction", HTML: "<p>Hi</p>"}
	express := &docs.Doc{ID: "nodejs/express", Route: "/docs/nodejs/express", Title: "Express", SidebarLabel: "Express.js", HasHeading: true, HTML: "<h1>Express</h1>"}
	sidebar := []docs.Category{{Name: "nodejs", Label: "Node.js", Docs: []*docs.Doc{intro, express}}}

	doc := parse(t, renderString(t, siteContext(), DocPage(PageMeta{Year: 2024}, intro, sidebar, nil, express)))

	assert.Equal(t, "Introduction | Venkata Rajesh Jakka", textOf(findAll(doc, byTag("title"))[0]))

	article := findAll(doc, byTag("article"))
	require.Len(t, article, 1)
	h1 := findAll(article[0], byTag("h1"))
	require.Len(t, h1, 1)
	assert.Equal(t, "Introduction", textOf(h1[0]))

	active := findAll(doc, byClass("menu__link--active"))
	require.Len(t, active, 1)
	assert.Equal(t, "/docs/nodejs/introduction", attr(active[0], "href"))
	assert.Equal(t, "page", attr(active[0], "aria-current"))
	assert.Equal(t, "Node.js", textOf(findAll(doc, byClass("menu__category"))[0]))

	assert.Empty(t, findAll(doc, byClass("pagination-nav__link--prev")))
	next := findAll(doc, byClass("pagination-nav__link--next"))
	require.Len(t, next, 1)
	assert.Equal(t, "/docs/nodejs/express", attr(next[0], "href"))
	assert.Contains(t, textOf(next[0]), "Express.js")

	// A body with its own h1 is not given a second one.
	doc = parse(t, renderString(t, siteContext(), DocPage(PageMeta{}, express, sidebar, intro, nil)))
	assert.Len(t, findAll(findAll(doc, byTag("article"))[0], byTag("h1")), 1)
}

func TestNotFoundPage(t *testing.T) {
	doc := parse(t, renderString(t, siteContext(), NotFoundPage(PageMeta{})))
	assert.Equal(t, "Page Not Found", textOf(findAll(doc, byTag("title"))[0]))
}
