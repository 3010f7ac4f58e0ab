// Package server is the development server: it serves the site from
// memory, rebuilds it when sources change and tells browsers to reload.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/venkatarajeshjakka/notes/internal/build"
	"github.com/venkatarajeshjakka/notes/internal/config"
	"github.com/venkatarajeshjakka/notes/internal/errors"
	"github.com/venkatarajeshjakka/notes/internal/logging"
	"github.com/venkatarajeshjakka/notes/internal/watcher"
)

const (
	defaultDebounce = 300 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Options configure a Server.
type Options struct {
	// Root is the project directory, as for build.Options.
	Root string
	// ConfigFile is watched when set. A change calls Reload.
	ConfigFile string
	// Reload re-reads the configuration. Nil keeps the initial one.
	Reload func() (*config.Config, error)
	// Watch enables rebuilds on file changes.
	Watch bool
	// Debounce groups changes arriving within this window. Zero means 300ms.
	Debounce time.Duration
}

// Server serves the in-memory site with live reload.
type Server struct {
	opts    Options
	logger  logging.Logger
	hub     *Hub
	metrics *build.Metrics
	started time.Time

	// buildMutex serializes rebuilds.
	buildMutex sync.Mutex

	mutex   sync.RWMutex
	cfg     *config.Config
	site    *build.Site
	lastErr error
}

// New creates a server for cfg. Nothing is built until Rebuild or Serve.
func New(cfg *config.Config, logger logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	logger = logger.WithComponent("server")

	return &Server{
		opts:    opts,
		logger:  logger,
		hub:     NewHub(logger, "localhost:*", "127.0.0.1:*", cfg.Server.Host+":*"),
		metrics: build.NewMetrics(),
		started: time.Now(),
		cfg:     cfg,
	}
}

// Config returns the configuration currently served.
func (s *Server) Config() *config.Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cfg
}

// Metrics returns the rebuild counters.
func (s *Server) Metrics() *build.Metrics { return s.metrics }

// Hub returns the live-reload hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) state() (*config.Config, *build.Site, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cfg, s.site, s.lastErr
}

// Rebuild renders the site again. On success the new site replaces the
// served one; on failure the last good site keeps serving with an error
// overlay. Either way connected browsers are told to reload.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	cfg := s.Config()
	start := time.Now()
	site, err := build.NewGenerator(cfg, s.logger, build.Options{
		Root:       s.opts.Root,
		LiveReload: true,
	}).Render(ctx)
	duration := time.Since(start)
	s.metrics.RecordBuild(duration, err)

	s.mutex.Lock()
	if err == nil {
		s.site = site
	}
	s.lastErr = err
	s.mutex.Unlock()

	if err != nil {
		s.logger.Error(ctx, err, "rebuild failed")
		s.hub.Broadcast(UpdateMessage{Type: MessageReload, Error: err.Error()})
		return err
	}

	s.logger.Info(ctx, "site rebuilt", "pages", len(site.Routes()), "duration", duration)
	s.hub.Broadcast(UpdateMessage{Type: MessageReload})
	return nil
}

// handleChanges is the watcher callback. A change to the config file
// reloads it before rebuilding.
func (s *Server) handleChanges(ctx context.Context, events []watcher.ChangeEvent) error {
	reload := false
	for _, e := range events {
		s.logger.Debug(ctx, "file changed", "path", e.Path, "type", e.Type.String())
		if s.isConfigFile(e.Path) {
			reload = true
		}
	}

	if reload && s.opts.Reload != nil {
		cfg, err := s.opts.Reload()
		if err != nil {
			s.metrics.RecordBuild(0, err)
			s.mutex.Lock()
			s.lastErr = err
			s.mutex.Unlock()
			s.hub.Broadcast(UpdateMessage{Type: MessageReload, Error: err.Error()})
			return err
		}
		s.mutex.Lock()
		s.cfg = cfg
		s.mutex.Unlock()
		s.logger.Info(ctx, "configuration reloaded", "file", s.opts.ConfigFile)
	}

	return s.Rebuild(ctx)
}

func (s *Server) isConfigFile(p string) bool {
	if s.opts.ConfigFile == "" {
		return false
	}
	want, err1 := filepath.Abs(s.opts.ConfigFile)
	got, err2 := filepath.Abs(p)
	return err1 == nil && err2 == nil && want == got
}

// Serve listens on the configured host and port until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	cfg := s.Config()
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewServerError(errors.ErrCodeListen, "listening on "+addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener builds the site, starts the watcher when enabled and
// serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	// A failing first build still serves, showing the error until fixed.
	_ = s.Rebuild(ctx)

	eg, egctx := errgroup.WithContext(ctx)

	if s.opts.Watch {
		fw, err := s.watch(egctx)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer fw.Stop()
	}

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info(ctx, "serving site", "url", "http://"+ln.Addr().String()+s.Config().BaseURL)

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.NewServerError(errors.ErrCodeListen, "serving http", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		s.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug(shutdownCtx, "shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watch starts a file watcher over the docs, static and stylesheet
// directories and the config file's directory.
func (s *Server) watch(ctx context.Context) (*watcher.FileWatcher, error) {
	cfg := s.Config()
	gen := build.NewGenerator(cfg, s.logger, build.Options{Root: s.opts.Root})

	fw, err := watcher.NewFileWatcher(s.opts.Debounce, s.logger)
	if err != nil {
		return nil, errors.NewServerError(errors.ErrCodeListen, "creating file watcher", err)
	}
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.NoEditorFilter)
	fw.AddFilter(watcher.SiteFilter(gen.StaticDir()))

	dirs := []string{gen.DocsDir(), gen.StaticDir()}
	if css := cfg.Classic().Theme.CustomCSS; css != "" {
		dirs = append(dirs, s.resolve(filepath.Dir(css)))
	}
	for _, dir := range dirs {
		if dir == "" || !isDir(dir) {
			continue
		}
		if err := fw.AddRecursive(dir); err != nil {
			s.logger.Warn(ctx, err, "cannot watch directory", "dir", dir)
		}
	}
	if s.opts.ConfigFile != "" {
		if err := fw.AddPath(filepath.Dir(s.opts.ConfigFile)); err != nil {
			s.logger.Warn(ctx, err, "cannot watch config file", "file", s.opts.ConfigFile)
		}
	}

	fw.AddHandler(s.handleChanges)
	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return nil, err
	}
	s.logger.Debug(ctx, "watching for changes", "paths", len(fw.WatchedPaths()))
	return fw, nil
}

func (s *Server) resolve(p string) string {
	if filepath.IsAbs(p) || s.opts.Root == "" {
		return p
	}
	return filepath.Join(s.opts.Root, p)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
