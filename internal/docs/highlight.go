package docs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeFormatter emits class-based markup, so one page works with both the
// light and the dark stylesheet.
var codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

// codeBlockRenderer highlights fenced code blocks with chroma.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	if err := highlight(w, code.String(), string(n.Language(source))); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func highlight(w util.BufWriter, code, lang string) error {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenising %s code block: %w", lang, err)
	}
	return codeFormatter.Format(w, styles.Fallback, iterator)
}

// SyntaxCSS returns the stylesheet for highlighted code: the light style,
// followed by the dark style scoped to prefers-color-scheme: dark.
func SyntaxCSS(light, dark string) (string, error) {
	lightStyle, err := lookupStyle(light)
	if err != nil {
		return "", err
	}
	darkStyle, err := lookupStyle(dark)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := codeFormatter.WriteCSS(&b, lightStyle); err != nil {
		return "", fmt.Errorf("writing %s css: %w", light, err)
	}
	if darkStyle != lightStyle {
		b.WriteString("@media (prefers-color-scheme: dark) {\n")
		if err := codeFormatter.WriteCSS(&b, darkStyle); err != nil {
			return "", fmt.Errorf("writing %s css: %w", dark, err)
		}
		b.WriteString("}\n")
	}
	return b.String(), nil
}

func lookupStyle(name string) (*chroma.Style, error) {
	style, ok := styles.Registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown syntax highlighting theme %q", name)
	}
	return style, nil
}
