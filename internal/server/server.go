package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/soundleaf/audioconv/internal/logging"
	"github.com/soundleaf/audioconv/internal/meta"
	"github.com/soundleaf/audioconv/internal/pipeline"
)

// Server is the HTTP surface: the form, the conversion endpoint, and the
// display-only metadata endpoint.
type Server struct {
	httpServer *http.Server
	runner     *pipeline.Runner
	meta       *meta.Client
	log        zerolog.Logger
}

func New(addr string, runner *pipeline.Runner, metaClient *meta.Client) *Server {
	s := &Server{
		runner: runner,
		meta:   metaClient,
		log:    logging.Get("server"),
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Routes builds the router; exposed so handler tests can drive it directly.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Get("/", s.handleIndex)
	r.Post("/convert", s.handleConvert)
	r.Get("/meta", s.handleMeta)
	r.Get("/healthz", s.handleHealthz)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("Starting HTTP server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Stopping HTTP server")
	return s.httpServer.Shutdown(ctx)
}
