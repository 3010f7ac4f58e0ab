package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/logging"
)

var projectFiles = map[string]string{
	"docs/nodejs/introduction.md":                     "---\ntitle: Introduction\nsidebar_position: 1\n---\nHello.\n",
	"docs/nodejs/database/create-database-mongodb.md": "# Create a MongoDB database\n",
	"docs/dotnet/middleware.md":                       "# Middleware\n",
	"docs/dotnet/authentication/jwt-token.md":         "# JWT Token\n",
	"static/img/logo.svg":                             "<svg></svg>",
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, body := range files {
		writeFile(t, root, name, body)
	}
	return root
}

func writeFile(t *testing.T, root, name, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newTestServer(t *testing.T, root string, opts Options) (*Server, *httptest.Server) {
	t.Helper()

	opts.Root = root
	s := New(config.Default(), logging.Discard(), opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

// noRedirect returns redirects to the caller instead of following them.
var noRedirect = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := noRedirect.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandler_ServesSite(t *testing.T) {
	s, ts := newTestServer(t, writeProject(t, projectFiles), Options{})
	require.NoError(t, s.Rebuild(context.Background()))

	resp, body := get(t, ts.URL+"/notes/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "hero__title")
	assert.Contains(t, body, "new WebSocket", "pages carry the reload script")

	resp, body = get(t, ts.URL+"/notes/docs/nodejs/introduction/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Introduction")

	resp, body = get(t, ts.URL+"/notes/css/custom.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	assert.Contains(t, body, ".hero-banner")

	resp, _ = get(t, ts.URL+"/notes/sitemap.xml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")
}

func TestHandler_Redirects(t *testing.T) {
	s, ts := newTestServer(t, writeProject(t, projectFiles), Options{})
	require.NoError(t, s.Rebuild(context.Background()))

	for _, p := range []string{"/", "/notes"} {
		resp, _ := get(t, ts.URL+p)
		assert.Equal(t, http.StatusFound, resp.StatusCode, p)
		assert.Equal(t, "/notes/", resp.Header.Get("Location"), p)
	}
}

func TestHandler_NotFound(t *testing.T) {
	s, ts := newTestServer(t, writeProject(t, projectFiles), Options{})
	require.NoError(t, s.Rebuild(context.Background()))

	for _, p := range []string{"/notes/docs/missing", "/elsewhere", "/notes/404"} {
		resp, body := get(t, ts.URL+p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
		assert.Contains(t, body, "Page Not Found", p)
	}
}

func TestHandler_HealthAndPing(t *testing.T) {
	s, ts := newTestServer(t, writeProject(t, projectFiles), Options{})
	require.NoError(t, s.Rebuild(context.Background()))

	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 5, health.Pages)
	assert.Equal(t, int64(1), health.Builds.SuccessfulBuilds)
	assert.Equal(t, 100.0, health.SuccessRate)

	resp, _ = get(t, ts.URL+"/ping")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRebuild_KeepsLastGoodSite(t *testing.T) {
	root := writeProject(t, projectFiles)
	s, ts := newTestServer(t, root, Options{})
	require.NoError(t, s.Rebuild(context.Background()))

	writeFile(t, root, "docs/nodejs/broken.md", "# Broken\n\nSee [this](/docs/nowhere).\n")
	err := s.Rebuild(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/docs/nowhere")

	resp, body := get(t, ts.URL+"/notes/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "hero__title")
	assert.Contains(t, body, "notes-error-overlay")

	resp, _ = get(t, ts.URL+"/notes/docs/nodejs/broken")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "the failed build is not served")

	snap := s.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalBuilds)
	assert.Equal(t, int64(1), snap.FailedBuilds)

	_, body = get(t, ts.URL+"/health")
	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.NotEmpty(t, health.LastError)

	require.NoError(t, os.Remove(filepath.Join(root, "docs", "nodejs", "broken.md")))
	require.NoError(t, s.Rebuild(context.Background()))
	_, body = get(t, ts.URL+"/notes/")
	assert.NotContains(t, body, "notes-error-overlay")
}

func TestHandler_NoSiteYet(t *testing.T) {
	// Without docs the home page's links are broken and the build throws.
	s, ts := newTestServer(t, t.TempDir(), Options{})
	require.Error(t, s.Rebuild(context.Background()))

	resp, body := get(t, ts.URL+"/notes/")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "notes-error-overlay")
	assert.Contains(t, body, "new WebSocket")
}

func TestLiveReload(t *testing.T) {
	s, ts := newTestServer(t, writeProject(t, projectFiles), Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return s.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Rebuild(context.Background()))

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg UpdateMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.Empty(t, msg.Error)
}

func TestServeListener_WatchAndShutdown(t *testing.T) {
	root := writeProject(t, projectFiles)
	s := New(config.Default(), logging.Discard(), Options{
		Root:     root,
		Watch:    true,
		Debounce: 20 * time.Millisecond,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/notes/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	writeFile(t, root, "docs/nodejs/streams.md", "# Streams\n")

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/notes/docs/nodejs/streams")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	cfg.Server.Host = host
	cfg.Server.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	err = New(cfg, nil, Options{}).Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestWithOverlay(t *testing.T) {
	page := []byte("<html><body><p>x</p></body></html>")

	assert.Equal(t, page, withOverlay(page, nil))

	out := string(withOverlay(page, assert.AnError))
	assert.True(t, strings.HasSuffix(out, "</body></html>"))
	assert.Contains(t, out, `<p>x</p><div id="notes-error-overlay"`)

	bare := string(withOverlay([]byte("<p>x</p>"), assert.AnError))
	assert.True(t, strings.HasPrefix(bare, "<p>x</p>"))
	assert.Contains(t, bare, "notes-error-overlay")
}
