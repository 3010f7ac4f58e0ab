package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/venkatarajeshjakka/notes/internal/content"
)

// Stats renders the summary metrics panel. Values and labels are shown
// verbatim, never parsed.
func Stats(entries []content.StatEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newWriter(w)
		hw.raw(`<section class="stats"><div class="container"><div class="stats-grid">`)
		for _, stat := range entries {
			hw.raw(`<div class="stat-item"><div class="stat-value">`)
			hw.text(stat.Value)
			hw.raw(`</div><div class="stat-label">`)
			hw.text(stat.Label)
			hw.raw(`</div></div>`)
		}
		hw.raw(`</div></div></section>`)
		return hw.err
	})
}
