package docs

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of a doc file.
type FrontMatter struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
	Description     string   `yaml:"description"`
	Slug            string   `yaml:"slug"`
	Draft           bool     `yaml:"draft"`
}

var fence = []byte("---")

// splitFrontMatter separates a leading "---" fenced YAML block from the body.
// Sources without one are returned unchanged with a nil header.
func splitFrontMatter(src []byte) (header, body []byte) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimSpace(first), fence) {
		return nil, src
	}

	offset := len(src) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if bytes.Equal(bytes.TrimSpace(line), fence) {
			end := len(src) - len(rest)
			return src[offset:end], next
		}
		rest = next
	}
	return nil, src
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func parseFrontMatter(header []byte) (FrontMatter, error) {
	var fm FrontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, err
	}
	return fm, nil
}
