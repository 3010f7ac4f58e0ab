package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/content"
)

const (
	featuresHeading  = "Technical Documentation"
	featuresSubtitle = "Comprehensive guides and notes on modern web development technologies"
)

// Features renders the documentation topic grid, one card per entry in
// input order.
func Features(entries []content.FeatureEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<section class="features"><div class="container">`)
		hw.raw(`<div class="text--center margin-bottom--xl"><h2>`)
		hw.text(featuresHeading)
		hw.raw(`</h2><p class="features-subtitle">`)
		hw.text(featuresSubtitle)
		hw.raw(`</p></div><div class="row features-grid">`)
		for _, entry := range entries {
			hw.raw(`<div class="col col--6">`)
			hw.render(ctx, FeatureCard(entry))
			hw.raw(`</div>`)
		}
		hw.raw(`</div></div></section>`)
		return hw.err
	})
}

// FeatureCard renders one entry as a link wrapping an icon badge, the title
// and the description. The href is entry.Link unchanged.
func FeatureCard(entry content.FeatureEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<a class="feature-card"`)
		hw.href(entry.Link)
		if content.IsExternal(entry.Link) {
			hw.raw(` target="_blank" rel="noopener noreferrer"`)
		}
		hw.raw(`><div class="feature-icon"`)
		hw.attr("style", "background-color: "+entry.Color)
		hw.raw(`>`)
		hw.text(entry.Icon)
		hw.raw(`</div><div class="feature-content"><h3>`)
		hw.text(entry.Title)
		hw.raw(`</h3><p>`)
		hw.text(entry.Description)
		hw.raw(`</p></div></a>`)
		return hw.err
	})
}
