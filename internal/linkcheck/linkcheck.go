// Package linkcheck finds in-site links that point at pages the build does
// not produce, and reports them according to the configured policy.
package linkcheck

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/logging"
)

// Kind tells page links from markdown source links.
type Kind int

const (
	KindLink Kind = iota
	KindMarkdown
)

func (k Kind) String() string {
	if k == KindMarkdown {
		return "broken markdown link"
	}
	return "broken link"
}

// Finding is one link that resolves to no known route.
type Finding struct {
	Kind Kind
	// Page is the route of the page holding the link.
	Page string
	// Source is the file the link was written in, when known.
	Source string
	Target string
}

func (f Finding) String() string {
	if f.Source != "" {
		return fmt.Sprintf("%s in %s -> %s", f.Kind, f.Source, f.Target)
	}
	return fmt.Sprintf("%s on %s -> %s", f.Kind, f.Page, f.Target)
}

// Checker knows every route and file the site will serve. It is safe for
// concurrent use once all routes are added.
type Checker struct {
	mu     sync.RWMutex
	routes map[string]bool
}

// NewChecker returns a checker that accepts the given routes.
func NewChecker(routes ...string) *Checker {
	c := &Checker{routes: make(map[string]bool, len(routes))}
	for _, r := range routes {
		c.Add(r)
	}
	return c
}

// Add registers a page route or a static file path.
func (c *Checker) Add(route string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[Normalize(route)] = true
}

// Known reports whether route is served.
func (c *Checker) Known(route string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.routes[Normalize(route)]
}

// Check parses page and returns its anchors whose in-site target is unknown.
// Relative targets are resolved against pageRoute.
func (c *Checker) Check(pageRoute string, page []byte) ([]Finding, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageRoute, err)
	}

	var findings []Finding
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				if target, internal := Resolve(pageRoute, href); internal && !c.Known(target) {
					findings = append(findings, Finding{Kind: KindLink, Page: pageRoute, Target: href})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return findings, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Resolve returns the normalized site path href points at from pageRoute.
// internal is false for links that leave the site or stay on the page:
// absolute URLs, other schemes such as mailto: and pure #fragments.
func Resolve(pageRoute, href string) (target string, internal bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return href, true
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	if u.Path == "" {
		return "", false
	}

	base := &url.URL{Path: pageRoute}
	return Normalize(base.ResolveReference(&url.URL{Path: u.Path}).Path), true
}

// Normalize cleans a site path for lookup: "/docs/x/", "/docs/x/index.html"
// and "/docs/x" are the same route.
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean("/" + p)
	p = strings.TrimSuffix(p, "/index.html")
	if p == "" {
		return "/"
	}
	return p
}

// Apply reports findings according to policy: throw fails with a link
// error listing all of them, warn and log write one log entry each, and
// ignore drops them.
func Apply(ctx context.Context, policy string, findings []Finding, logger logging.Logger) error {
	if len(findings) == 0 || policy == config.PolicyIgnore {
		return nil
	}

	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		return sorted[i].Target < sorted[j].Target
	})

	switch policy {
	case config.PolicyThrow:
		var b strings.Builder
		fmt.Fprintf(&b, "found %d %s(s):", len(sorted), sorted[0].Kind)
		for _, f := range sorted {
			b.WriteString("\n  - ")
			b.WriteString(f.String())
		}
		code := errors.ErrCodeBrokenLinks
		if sorted[0].Kind == KindMarkdown {
			code = errors.ErrCodeBrokenMarkdownLink
		}
		return errors.NewLinkError(code, b.String()).WithContext("count", len(sorted))
	case config.PolicyWarn:
		for _, f := range sorted {
			logger.Warn(ctx, nil, f.Kind.String(), "page", f.Page, "source", f.Source, "target", f.Target)
		}
	default:
		for _, f := range sorted {
			logger.Info(ctx, f.Kind.String(), "page", f.Page, "source", f.Source, "target", f.Target)
		}
	}
	return nil
}
