// Package export turns rendered pages back into markdown, for reading the
// site in a terminal or feeding it to other tools.
package export

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultStyle is the glamour style used when none is given.
	DefaultStyle = "dark"
	// DefaultWidth is the wrap width used when none is given.
	DefaultWidth = 80
)

// chrome is dropped from the exported content.
var chrome = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Nav:    true,
	atom.Aside:  true,
	atom.Footer: true,
}

// Markdown converts the content of a rendered page to markdown. The
// article of a doc page is preferred, then <main>, then <body>; navigation,
// sidebars, footers and scripts are left out.
func Markdown(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing page: %w", err)
	}

	root := find(doc, atom.Article)
	if root == nil {
		root = find(doc, atom.Main)
	}
	if root == nil {
		root = find(doc, atom.Body)
	}
	if root == nil {
		return "", nil
	}
	strip(root)

	var buf bytes.Buffer
	// The home page hero sits in a <header> before <main>.
	if root.DataAtom == atom.Main {
		if hero := heroOf(doc); hero != nil {
			if err := html.Render(&buf, hero); err != nil {
				return "", fmt.Errorf("rendering hero: %w", err)
			}
		}
	}
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("rendering content: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", fmt.Errorf("converting to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}

// Terminal renders markdown for a terminal with the named glamour style,
// wrapped at width columns.
func Terminal(md, style string, width int) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer with style %q: %w", style, err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func heroOf(doc *html.Node) *html.Node {
	header := find(doc, atom.Header)
	if header == nil || !hasClass(header, "hero") {
		return nil
	}
	return header
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// strip removes chrome elements below n.
func strip(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && chrome[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			strip(c)
		}
		c = next
	}
}
