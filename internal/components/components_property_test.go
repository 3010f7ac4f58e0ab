package components

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/net/html"

	"github.com/venkatarajeshjakka/notes/internal/content"
)

func featureGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(content.FeatureEntry{}), map[string]gopter.Gen{
		"Title":       gen.AnyString(),
		"Icon":        gen.AlphaString(),
		"Color":       gen.RegexMatch(`^#[0-9a-f]{6}$`),
		"Description": gen.AnyString(),
		"Link":        gen.RegexMatch(`^/docs/[a-z0-9-]{1,12}(/[a-z0-9-]{1,12})?$`),
	})
}

func statGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(content.StatEntry{}), map[string]gopter.Gen{
		"Value": gen.RegexMatch(`^[0-9]{1,3}[+%]?$`),
		"Label": gen.AlphaString(),
	})
}

func renderNodes(markup string) (*html.Node, bool) {
	doc, err := html.Parse(strings.NewReader(markup))
	return doc, err == nil
}

func TestComponentProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	ctx := siteContext()

	properties.Property("one card per entry, in order, with the entry's link", prop.ForAll(
		func(entries []content.FeatureEntry) bool {
			var buf bytes.Buffer
			if err := Features(entries).Render(ctx, &buf); err != nil {
				return false
			}
			doc, ok := renderNodes(buf.String())
			if !ok {
				return false
			}
			cards := findAll(doc, byClass("feature-card"))
			if len(cards) != len(entries) {
				return false
			}
			for i, card := range cards {
				if attr(card, "href") != entries[i].Link {
					return false
				}
			}
			return true
		},
		gen.SliceOf(featureGen()),
	))

	properties.Property("stat text is rendered verbatim", prop.ForAll(
		func(entries []content.StatEntry) bool {
			var buf bytes.Buffer
			if err := Stats(entries).Render(ctx, &buf); err != nil {
				return false
			}
			doc, ok := renderNodes(buf.String())
			if !ok {
				return false
			}
			values := findAll(doc, byClass("stat-value"))
			labels := findAll(doc, byClass("stat-label"))
			if len(values) != len(entries) || len(labels) != len(entries) {
				return false
			}
			for i, e := range entries {
				if textOf(values[i]) != e.Value || textOf(labels[i]) != e.Label {
					return false
				}
			}
			return true
		},
		gen.SliceOf(statGen()),
	))

	properties.Property("rendering is deterministic", prop.ForAll(
		func(entries []content.FeatureEntry) bool {
			var first, second bytes.Buffer
			if err := Features(entries).Render(ctx, &first); err != nil {
				return false
			}
			if err := Features(entries).Render(ctx, &second); err != nil {
				return false
			}
			return bytes.Equal(first.Bytes(), second.Bytes())
		},
		gen.SliceOf(featureGen()),
	))

	properties.TestingRun(t)
}
