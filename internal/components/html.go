// Package components renders the site's pages as templ components.
//
// Every component reads the ambient site configuration from the render
// context (see config.NewContext), so a page is rendered by placing the
// configuration in ctx and calling Render on the outermost component.
package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/content"
)

// htmlWriter writes markup to w and remembers the first error, so component
// bodies read top to bottom without an error check per tag.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// text writes s HTML-escaped.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes an href attribute. Unsafe schemes are replaced by templ.
func (hw *htmlWriter) href(link string) {
	hw.attr("href", string(templ.URL(link)))
}

// render writes a child component.
func (hw *htmlWriter) render(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// link writes a complete anchor. External links open in a new tab.
func (hw *htmlWriter) link(class, target, label string) {
	hw.raw("<a")
	if class != "" {
		hw.attr("class", class)
	}
	hw.href(target)
	if content.IsExternal(target) {
		hw.raw(` target="_blank" rel="noopener noreferrer"`)
	}
	hw.raw(">")
	hw.text(label)
	hw.raw("</a>")
}

// classes joins the non-empty class names.
func classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}
