package build

import (
	"encoding/xml"
	"strings"
)

// absoluteURL joins the site origin, the base URL and a route.
func absoluteURL(origin, baseURL, route string) string {
	base := strings.TrimSuffix(origin, "/") + "/" + strings.Trim(baseURL, "/")
	base = strings.TrimSuffix(base, "/")
	if route == "/" {
		return base + "/"
	}
	return base + route
}

// sitemap lists every route as an absolute URL.
func sitemap(origin, baseURL string, routes []string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	b.WriteString("\n")

	for _, route := range routes {
		b.WriteString("  <url>\n    <loc>")
		_ = xml.EscapeText(&b, []byte(absoluteURL(origin, baseURL, route)))
		b.WriteString("</loc>\n    <changefreq>weekly</changefreq>\n    <priority>0.5</priority>\n  </url>\n")
	}

	b.WriteString("</urlset>\n")
	return []byte(b.String())
}

func robots(origin, baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Sitemap: " + absoluteURL(origin, baseURL, "/sitemap.xml") + "\n")
	return []byte(b.String())
}
