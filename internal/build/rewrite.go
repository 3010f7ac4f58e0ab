package build

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// rewriteBase prefixes every root-relative href and src in page with
// baseURL. Everything else, including text inside scripts, is copied
// byte for byte.
func rewriteBase(page []byte, baseURL string) ([]byte, error) {
	prefix := strings.TrimSuffix(baseURL, "/")
	if prefix == "" {
		return page, nil
	}

	var out bytes.Buffer
	out.Grow(len(page) + len(page)/20)

	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return out.Bytes(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			// Token lower-cases the tag name in place, so keep the raw bytes first.
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()
			if !rewriteAttrs(&tok, prefix) {
				out.Write(raw)
				continue
			}
			out.WriteString(tok.String())
		default:
			out.Write(z.Raw())
		}
	}
}

func rewriteAttrs(tok *html.Token, prefix string) bool {
	changed := false
	for i, a := range tok.Attr {
		if a.Namespace != "" || (a.Key != "href" && a.Key != "src") {
			continue
		}
		if strings.HasPrefix(a.Val, "/") && !strings.HasPrefix(a.Val, "//") {
			tok.Attr[i].Val = prefix + a.Val
			changed = true
		}
	}
	return changed
}
