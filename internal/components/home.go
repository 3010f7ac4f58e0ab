package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/content"
)

const homeDescription = "Comprehensive technical documentation covering Node.js, .NET, databases, authentication, and modern web development practices"

// Home composes the landing page body: hero, then stats and features inside
// the main element.
func Home(features []content.FeatureEntry, stats []content.StatEntry, actions []content.Action) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.render(ctx, Hero(actions))
		hw.raw(`<main>`)
		hw.render(ctx, Stats(stats))
		hw.render(ctx, Features(features))
		hw.raw(`</main>`)
		return hw.err
	})
}

// HomeTitle is the document title of the landing page.
func HomeTitle(cfg *config.Config) string {
	return cfg.Title + " - Developer Notes & Guides"
}

// HomePage is the full landing page document built from the content registry.
func HomePage(cfg *config.Config, meta PageMeta) templ.Component {
	meta.Title = HomeTitle(cfg)
	meta.Description = homeDescription
	if meta.Route == "" {
		meta.Route = "/"
	}
	return Layout(meta, Home(content.Features(), content.Stats(), content.HeroActions()))
}
