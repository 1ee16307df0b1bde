package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"loan-dashboard/dashboard"
	"loan-dashboard/utils"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan_dashboard",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan_dashboard",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "loan_dashboard",
		Name:      "active_sessions",
		Help:      "Number of live dashboard sessions",
	})
)

// httpMetrics records latency and count per route pattern.
func httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		status := strconv.Itoa(ww.Status())
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

// requestLogger logs one line per request through the project logger.
func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			line := "%s %s %d %dB in %v [%s]"
			args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(), time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context())}
			switch {
			case status >= 500:
				logger.Error(line, args...)
			case r.URL.Path == "/health" || r.URL.Path == "/metrics":
				logger.Debug(line, args...)
			default:
				logger.Info(line, args...)
			}
		})
	}
}

type ctxKey struct{}

// withSession resolves the session cookie to an orchestrator, issuing a new
// cookie when the session is missing or expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}

		newID, orch := s.sessions.Get(id)
		if newID != id {
			cookie := &http.Cookie{
				Name:     sessionCookie,
				Value:    newID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			}
			if s.opts.SessionTTL > 0 {
				cookie.MaxAge = int(s.opts.SessionTTL.Seconds())
			}
			http.SetCookie(w, cookie)
			activeSessions.Set(float64(s.sessions.Len()))
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, orch)))
	})
}

func session(r *http.Request) *dashboard.Orchestrator {
	return r.Context().Value(ctxKey{}).(*dashboard.Orchestrator)
}
