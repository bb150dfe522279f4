// Package server exposes the assistant over HTTP for browser and bot front ends.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"goldenspoon/internal/domain"
	"goldenspoon/internal/logger"
	"goldenspoon/internal/service"
	"goldenspoon/internal/session"
	"goldenspoon/internal/speech"
)

// MaxAudioBytes bounds an uploaded utterance (about a minute of 16 kHz PCM).
const MaxAudioBytes = 2 << 20

// Assistant is the subset of service.Assistant the API drives.
type Assistant interface {
	Cycle(ctx context.Context, state *session.State, hooks service.TurnHooks) (service.TurnResult, error)
	SubmitAudio(ctx context.Context, state *session.State, pcm []byte) (string, error)
	ClearMemory()
}

type Config struct {
	Assistant Assistant
	Sessions  *session.Repository
	// Synthesizer backs POST /api/speech; nil disables the route.
	Synthesizer speech.Synthesizer
	// Gatherer is scraped by /metrics; nil uses the default registry.
	Gatherer        prometheus.Gatherer
	Logger          logger.Logger
	DefaultLanguage domain.Language
}

// Server holds the HTTP handlers.
type Server struct {
	assistant Assistant
	sessions  *session.Repository
	synth     speech.Synthesizer
	gatherer  prometheus.Gatherer
	logger    logger.Logger
	language  domain.Language
}

func New(cfg Config) (*Server, error) {
	if cfg.Assistant == nil || cfg.Sessions == nil {
		return nil, errors.New("server needs an assistant and a session repository")
	}
	s := &Server{
		assistant: cfg.Assistant,
		sessions:  cfg.Sessions,
		synth:     cfg.Synthesizer,
		gatherer:  cfg.Gatherer,
		logger:    cfg.Logger,
		language:  cfg.DefaultLanguage,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.language == "" {
		s.language = domain.DefaultLanguage
	}
	return s, nil
}

// Router builds the chi router with every route registered.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Put("/language", s.setLanguage)
			r.Post("/voice", s.submitVoice)
			r.Post("/turns", s.runTurn)
			r.Delete("/log", s.clearLog)
		})
		r.Delete("/memory", s.clearMemory)
		r.Post("/speech", s.synthesize)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server", "listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server", "shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("server", "request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}
