package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docPage = `<!DOCTYPE html><html><head><title>Express | Notes</title><style>p{}</style></head><body>
<nav class="navbar"><a href="/">Home</a></nav>
<div class="doc-page"><aside><nav class="menu"><a href="/docs/a">Sidebar link</a></nav></aside>
<main class="doc-main"><article class="markdown">
<h1>Express</h1>
<p>Routing with <strong>express</strong> and <a href="/docs/nodejs/introduction">the intro</a>.</p>
<ul><li>one</li><li>two</li></ul>
<nav class="pagination-nav"><a href="/docs/next">Next</a></nav>
</article></main></div>
<footer class="footer">Copyright</footer><script>console.log(1)</script>
</body></html>`

const homePage = `<!DOCTYPE html><html><body>
<nav class="navbar">Brand</nav>
<header class="hero hero-banner"><h1 class="hero__title">Venkata Rajesh Jakka</h1><p>Senior Software Engineer</p></header>
<main><section class="features"><h2>Technical Documentation</h2></section></main>
<footer>Copyright</footer>
</body></html>`

func TestMarkdown_DocPage(t *testing.T) {
	md, err := Markdown([]byte(docPage))
	require.NoError(t, err)

	assert.Contains(t, md, "# Express")
	assert.Contains(t, md, "**express**")
	assert.Contains(t, md, "[the intro](/docs/nodejs/introduction)")
	assert.Contains(t, md, "- one")

	assert.NotContains(t, md, "Sidebar link")
	assert.NotContains(t, md, "Next")
	assert.NotContains(t, md, "Copyright")
	assert.NotContains(t, md, "console.log")
	assert.True(t, strings.HasSuffix(md, "\n"))
}

func TestMarkdown_HomePage(t *testing.T) {
	md, err := Markdown([]byte(homePage))
	require.NoError(t, err)

	assert.Contains(t, md, "# Venkata Rajesh Jakka")
	assert.Contains(t, md, "Senior Software Engineer")
	assert.Contains(t, md, "## Technical Documentation")
	assert.NotContains(t, md, "Brand")
	assert.Less(t, strings.Index(md, "Venkata"), strings.Index(md, "Technical"), "hero comes first")
}

func TestMarkdown_BodyFallback(t *testing.T) {
	md, err := Markdown([]byte(`<p>Just a <em>fragment</em></p>`))
	require.NoError(t, err)
	assert.Equal(t, "Just a *fragment*\n", md)
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Title\n\nSome text.\n", "notty", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Some text.")

	_, err = Terminal("# Title", "", 0)
	assert.NoError(t, err, "empty style and width fall back to defaults")

	_, err = Terminal("# Title", "no-such-style", 40)
	assert.Error(t, err)
}
