package docs

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// newMarkdown returns the goldmark pipeline used for every doc: GitHub
// flavored markdown, heading anchors and chroma highlighted code blocks.
// Raw HTML is kept since all content is authored in this repository.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&codeBlockRenderer{}, 200)),
		),
	)
}

// rendered is the outcome of converting one doc body.
type rendered struct {
	html    string
	heading string
	links   []MarkdownLink
}

// render converts body to HTML. Links to other markdown files are resolved
// relative to relPath through resolve and rewritten to the target's route.
func render(md goldmark.Markdown, body []byte, relPath string, resolve func(string) (string, bool)) (rendered, error) {
	var out rendered

	root := md.Parser().Parse(text.NewReader(body))
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && out.heading == "" {
				out.heading = nodeText(node, body)
			}
		case *ast.Link:
			dest := string(node.Destination)
			target, fragment, ok := markdownTarget(dest, relPath)
			if !ok {
				return ast.WalkContinue, nil
			}
			link := MarkdownLink{Target: dest}
			if route, found := resolve(target); found {
				link.Route = route
				node.Destination = []byte(route + fragment)
			} else {
				link.Broken = true
			}
			out.links = append(out.links, link)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return out, err
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, root); err != nil {
		return out, err
	}
	out.html = buf.String()
	return out, nil
}

// markdownTarget reports whether dest points at a markdown file in the docs
// tree and returns its slash path relative to the docs root, plus any
// "#fragment".
func markdownTarget(dest, relPath string) (target, fragment string, ok bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", "", false
	}
	if ext := path.Ext(u.Path); ext != ".md" && ext != ".mdx" {
		return "", "", false
	}
	if u.Fragment != "" {
		fragment = "#" + u.Fragment
	}

	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir(relPath), p)
	}
	return strings.TrimPrefix(path.Clean(p), "/"), fragment, true
}

// nodeText concatenates the text below n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// stripImports drops the ESM import and export lines at the top of an MDX
// body, which have no meaning outside a JavaScript toolchain.
func stripImports(body []byte) []byte {
	rest := body
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) != 0 && !bytes.HasPrefix(trimmed, []byte("import ")) && !bytes.HasPrefix(trimmed, []byte("export ")) {
			break
		}
		rest = next
	}
	return rest
}
