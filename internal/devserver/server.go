// Package devserver is an in-memory stand-in for the contact message
// service. It serves the same admin endpoints as the production backend so
// the dashboard can be developed and tested without network access.
package devserver

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// Options configures a Server.
type Options struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// Server serves the message service API over HTTP.
type Server struct {
	opts        Options
	store       *MemoryStore
	logger      *slog.Logger
	router      chi.Router
	server      *http.Server
	rateLimiter *RateLimiter
}

// NewServer creates a new server backed by store.
func NewServer(opts Options, store *MemoryStore, logger *slog.Logger) *Server {
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}
	s := &Server{
		opts:   opts,
		store:  store,
		logger: logger,
	}
	s.router = s.setupRouter()
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// setupRouter configures the chi router with all routes and middleware.
func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(s.loggerMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	cors := DefaultCORSConfig()
	if len(s.opts.CORSOrigins) > 0 {
		cors.AllowedOrigins = s.opts.CORSOrigins
	}
	r.Use(CORSMiddleware(cors))

	s.rateLimiter = NewRateLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst)
	r.Use(RateLimitMiddleware(s.rateLimiter))

	r.Get("/health", s.handleHealth)

	r.Route("/admin/messages", func(r chi.Router) {
		r.Get("/", s.handleListMessages)
		r.Delete("/{id}", s.handleDeleteMessage)
	})

	r.Post("/contact", s.handleSubmit)

	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe listens on the configured address and serves until
// Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves requests on ln until Shutdown is called. Shutdown may be
// called before Serve, in which case Serve returns immediately.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting dev server", "addr", ln.Addr().String(), "messages", s.store.Len())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.Close()
	s.logger.Info("shutting down dev server")
	return s.server.Shutdown(ctx)
}

// loggerMiddleware logs HTTP requests.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
