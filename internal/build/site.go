package build

import (
	"path"
	"sort"
	"strings"
)

// NotFoundRoute is the pseudo route of the 404 page.
const NotFoundRoute = "/404"

// Site is a fully rendered site held in memory. Pages are keyed by route
// and files by their path below the site root, e.g. "/css/custom.css".
type Site struct {
	BaseURL  string
	pages    map[string][]byte
	files    map[string][]byte
	Warnings []string
}

func newSite(baseURL string) *Site {
	return &Site{
		BaseURL: baseURL,
		pages:   make(map[string][]byte),
		files:   make(map[string][]byte),
	}
}

// Page returns the HTML of the page at route.
func (s *Site) Page(route string) ([]byte, bool) {
	b, ok := s.pages[route]
	return b, ok
}

// File returns the contents of the static file at p.
func (s *Site) File(p string) ([]byte, bool) {
	b, ok := s.files[p]
	return b, ok
}

// NotFound returns the 404 page.
func (s *Site) NotFound() []byte {
	return s.pages[NotFoundRoute]
}

// Routes returns every page route except the 404 page, sorted.
func (s *Site) Routes() []string {
	routes := make([]string, 0, len(s.pages))
	for r := range s.pages {
		if r != NotFoundRoute {
			routes = append(routes, r)
		}
	}
	sort.Strings(routes)
	return routes
}

// Files returns every static file path, sorted.
func (s *Site) Files() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Lookup resolves a request path, relative to the base URL, to a page or a
// file. "/docs/x", "/docs/x/" and "/docs/x/index.html" all find the same page.
func (s *Site) Lookup(p string) (body []byte, isPage bool, ok bool) {
	p = path.Clean("/" + p)
	if b, found := s.files[p]; found {
		return b, false, true
	}
	route := strings.TrimSuffix(p, "/index.html")
	if route == "" {
		route = "/"
	}
	if route == NotFoundRoute {
		return nil, false, false
	}
	if b, found := s.pages[route]; found {
		return b, true, true
	}
	return nil, false, false
}

// OutputPath is the file a route is written to, relative to the output
// directory: "/" is index.html and "/docs/x" is docs/x/index.html.
func OutputPath(route string) string {
	if route == NotFoundRoute {
		return "404.html"
	}
	route = strings.Trim(route, "/")
	if route == "" {
		return "index.html"
	}
	return route + "/index.html"
}
