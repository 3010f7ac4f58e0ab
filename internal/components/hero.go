package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/content"
)

const (
	heroBadge       = "Developer Notes"
	heroDescription = "Curated collection of practical guides, code examples, and best practices for modern full-stack development"
)

// Hero renders the home page banner. Title and tagline come from the site
// configuration in ctx; without one they render empty.
func Hero(actions []content.Action) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		cfg := config.FromContext(ctx)

		hw := newWriter(w)
		hw.raw(`<header class="hero hero-banner"><div class="hero-background"></div>`)
		hw.raw(`<div class="container"><div class="hero-content"><div class="hero-badge">`)
		hw.text(heroBadge)
		hw.raw(`</div><h1 class="hero__title">`)
		hw.text(cfg.Title)
		hw.raw(`</h1><p class="hero__subtitle">`)
		hw.text(cfg.Tagline)
		hw.raw(`</p><p class="hero-description">`)
		hw.text(heroDescription)
		hw.raw(`</p><div class="hero-buttons">`)
		for i, action := range actions {
			class := "button button--secondary button--lg"
			if i > 0 {
				class = "button button--outline button--lg button-github"
			}
			hw.link(class, action.To, action.Label)
		}
		hw.raw(`</div></div></div></header>`)
		return hw.err
	})
}
