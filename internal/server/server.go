// Package server exposes the graph translator and the dialogue bot over
// HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /v1/help                     HTML help page
//	POST   /v1/dot                      {text, directed, layout} -> DOT
//	POST   /v1/render?format=png        {text, directed, layout} -> image
//	POST   /v1/sessions                 -> {id}
//	POST   /v1/sessions/{id}/messages   {text} -> {text, image, format, dot}
//	DELETE /v1/sessions/{id}
//
// Errors are JSON objects {code, message} with the code from pkg/errors.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphbot/pkg/dialogue"
)

// maxBodyBytes bounds request bodies. Valid inputs are far smaller.
const maxBodyBytes = 1 << 20

// Config configures the HTTP listener.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	bot    *dialogue.Bot
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by bot. A nil logger uses log.Default().
func New(bot *dialogue.Bot, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		bot:    bot,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/help", s.handleHelp)
		r.Post("/dot", s.handleDOT)
		r.Post("/render", s.handleRender)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Post("/{id}/messages", s.handleMessage)
			r.Delete("/{id}", s.handleDeleteSession)
		})
	})

	return r
}

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
