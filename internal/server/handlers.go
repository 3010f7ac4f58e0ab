package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/venkatarajeshjakka/notes/internal/build"
	"github.com/venkatarajeshjakka/notes/internal/components"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/logging"
	"github.com/venkatarajeshjakka/notes/internal/version"
)

// Handler returns the router: the live-reload socket, /health, /ping and
// the site itself under the base URL.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Heartbeat("/ping"),
		middleware.GetHead,
	)

	// The socket is hijacked, so it stays outside the compressor.
	r.Handle(components.LiveReloadPath, s.hub)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/health", s.handleHealth)
		r.Get("/*", s.handleSite)
	})

	return r
}

// requestLogger logs each request at debug level through logger.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

// handleSite serves pages and files of the current site. Paths outside
// the base URL and unknown paths get the 404 page.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	cfg, site, buildErr := s.state()

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	p := r.URL.Path
	if base != "" {
		switch {
		case p == "/" || p == base:
			http.Redirect(w, r, cfg.BaseURL, http.StatusFound)
			return
		case strings.HasPrefix(p, base+"/"):
			p = strings.TrimPrefix(p, base)
		default:
			s.notFound(w, site, buildErr)
			return
		}
	}

	if site == nil {
		s.buildFailed(w, buildErr)
		return
	}

	body, isPage, ok := site.Lookup(p)
	if !ok {
		s.notFound(w, site, buildErr)
		return
	}

	name := path.Base(p)
	if isPage {
		name = "index.html"
		body = withOverlay(body, buildErr)
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(body))
}

func (s *Server) notFound(w http.ResponseWriter, site *build.Site, buildErr error) {
	if site == nil {
		s.buildFailed(w, buildErr)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(withOverlay(site.NotFound(), buildErr))
}

// buildFailed answers when no site was ever built. The page reloads itself
// once a rebuild succeeds.
func (s *Server) buildFailed(w http.ResponseWriter, buildErr error) {
	msg := "the site has not been built yet"
	if buildErr != nil {
		msg = errors.ErrorOverlay(buildErr)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Build failed</title></head><body>" +
		msg + components.LiveReloadScript + "</body></html>"))
}

// withOverlay inserts the error overlay before </body> when err is set.
func withOverlay(page []byte, err error) []byte {
	if err == nil {
		return page
	}
	overlay := []byte(errors.ErrorOverlay(err))
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(append([]byte{}, page...), overlay...)
	}
	out := make([]byte, 0, len(page)+len(overlay))
	out = append(out, page[:i]...)
	out = append(out, overlay...)
	return append(out, page[i:]...)
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status      string                `json:"status"`
	Version     string                `json:"version"`
	Uptime      string                `json:"uptime"`
	Pages       int                   `json:"pages"`
	Clients     int                   `json:"clients"`
	LastError   string                `json:"last_error,omitempty"`
	SuccessRate float64               `json:"success_rate"`
	Builds      build.MetricsSnapshot `json:"builds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, site, buildErr := s.state()

	resp := HealthResponse{
		Status:      "healthy",
		Version:     version.GetBuildInfo().Short(),
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Clients:     s.hub.Count(),
		SuccessRate: s.metrics.SuccessRate(),
		Builds:      s.metrics.Snapshot(),
	}
	if site != nil {
		resp.Pages = len(site.Routes())
	}
	if buildErr != nil {
		resp.Status = "degraded"
		resp.LastError = buildErr.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warn(r.Context(), err, "encoding health response")
	}
}
