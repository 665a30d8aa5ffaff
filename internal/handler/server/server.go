package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/fairway/competitions/internal/handler"
)

type Server struct {
	handler *handler.Handler
	server  *http.Server
	log     zerolog.Logger
}

func NewServer(h *handler.Handler, addr string, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	return &Server{
		handler: h,
		log:     log,
		server: &http.Server{
			Addr:              addr,
			Handler:           NewMux(h, gatherer, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewMux wires every route behind the access log.
func NewMux(h *handler.Handler, gatherer prometheus.Gatherer, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, h)
	SetupOperationalRoutes(mux, gatherer)
	return accessLog(log, mux)
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("server starting")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func accessLog(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := log.Debug()
		if rec.status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
