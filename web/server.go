// Package web serves the dashboard as server-rendered HTML. Each browser
// gets its own dashboard session; every action is a form post followed by
// a redirect back to the page.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-dashboard/dashboard"
	"loan-dashboard/locale"
	"loan-dashboard/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	sessionCookie = "loandash_session"
	sweepInterval = time.Minute
)

// Options configures the web front end.
type Options struct {
	Locale       locale.Config
	MaxUploadMB  int
	SessionTTL   time.Duration
	SecureCookie bool
	Version      string
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	sessions *dashboard.Sessions
	tmpl     *template.Template
	logger   *utils.Logger
	started  time.Time
	router   chi.Router
}

// NewServer parses the embedded templates and builds the router.
func NewServer(sessions *dashboard.Sessions, opts Options, logger *utils.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	if opts.Locale.Code == "" {
		opts.Locale = locale.English()
	}

	s := &Server{
		opts:     opts,
		sessions: sessions,
		tmpl:     tmpl,
		logger:   logger.With("web"),
		started:  time.Now(),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(httpMetrics)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Post("/predict", s.handlePredict)
		r.Post("/batch", s.handleBatch)
		r.Post("/batch/page", s.handlePage)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analytics/reset", s.handleResetAnalysis)
		r.Get("/charts/{name}.png", s.handleChart)
		r.Get("/export.csv", s.handleExport)
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s (locale %s)", addr, s.opts.Locale)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("Expired %d sessions", n)
			}
			activeSessions.Set(float64(s.sessions.Len()))
		}
	}
}
