package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	apihttp "github.com/abdul-hamid-achik/apidesk/packages/http"
	"github.com/abdul-hamid-achik/apidesk/packages/observability"
)

// InvocationHeader carries the ID assigned to each /execute call.
const InvocationHeader = "X-Invocation-Id"

// Executor is the part of *apihttp.Executor the bridge needs.
type Executor interface {
	Execute(ctx context.Context, req *apihttp.Request) (*apihttp.Response, error)
}

// DefaultAllowedOrigins are the origins the desktop webview loads from.
var DefaultAllowedOrigins = []string{
	"tauri://localhost",
	"http://tauri.localhost",
	"https://tauri.localhost",
}

// DefaultMaxBodyBytes caps the size of one /execute call.
const DefaultMaxBodyBytes = 32 << 20

type Config struct {
	Addr    string
	Version string
	// AllowedOrigins lists the browser origins that may call the bridge. nil
	// means DefaultAllowedOrigins, an empty slice allows none and "*" allows
	// any. Requests without an Origin header are not browser requests and
	// always pass.
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Server is the HTTP surface over an Executor.
type Server struct {
	cfg      Config
	executor Executor
	router   chi.Router
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

func NewServer(cfg Config, executor Executor, logger zerolog.Logger, metrics *observability.Metrics) *Server {
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = DefaultAllowedOrigins
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	s := &Server{
		cfg:      cfg,
		executor: executor,
		router:   chi.NewRouter(),
		logger:   logger.With().Str("component", "bridge").Logger(),
		metrics:  metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)

	r.Options("/execute", s.optionsHandler("POST"))

	r.Post("/execute", s.handleExecute)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"name":    "apidesk",
			"version": s.cfg.Version,
			"time":    time.Now().UTC(),
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
}

// corsMiddleware refuses browser requests from origins outside the allow-list
// before they reach a handler.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !s.originAllowed(origin) {
			s.logger.Warn().Str("origin", origin).Str("path", r.URL.Path).Msg("refused cross-origin request")
			writeError(w, http.StatusForbidden, KindRequest, "origin not allowed: "+origin)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", InvocationHeader)
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("bridge listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("bridge shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}
