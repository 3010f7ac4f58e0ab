// Package assets embeds the site's default stylesheet.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// CustomCSS returns the default site stylesheet.
func CustomCSS() []byte {
	b, err := static.ReadFile("static/css/custom.css")
	if err != nil {
		// The file is embedded at compile time.
		panic(err)
	}
	return b
}

// FS returns the embedded static tree rooted at its top, e.g. "css/custom.css".
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
