package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/elementsoftruth/trivia/internal/game"
	"github.com/elementsoftruth/trivia/internal/questiongen"
)

// QuestionService is what the HTTP layer needs from the orchestrator.
type QuestionService interface {
	Questions(ctx context.Context, req game.Request) (questiongen.Batch, error)
	Status() game.Status
}

// pageFiles maps the game's page routes to their static files,
// mirroring the browser client's expectations.
var pageFiles = map[string]string{
	"/":        "landing.html",
	"/setup":   "setup.html",
	"/loading": "loading.html",
	"/game":    "game.html",
	"/results": "results.html",
}

// Server is the HTTP front of the question service.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	service QuestionService
	logger  *zap.Logger

	// pagesDir, when set, is the directory the game pages are served
	// from. Empty disables page serving (API-only deployment).
	pagesDir string
}

// New creates a Server around the given service.
func New(service QuestionService, pagesDir string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:   chi.NewRouter(),
		service:  service,
		logger:   logger,
		pagesDir: pagesDir,
	}

	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Post("/api/generate_question", s.handleGenerateQuestion)
	s.router.Get("/api/status", s.handleStatus)
	s.router.Get("/health", s.handleHealth)

	if s.pagesDir != "" {
		for route, file := range pageFiles {
			s.router.Get(route, s.pageHandler(file))
		}
		s.router.Handle("/static/*", http.StripPrefix("/static/",
			http.FileServer(http.Dir(filepath.Join(s.pagesDir, "static")))))
	}
}

func (s *Server) pageHandler(file string) http.HandlerFunc {
	path := filepath.Join(s.pagesDir, file)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}

// Start blocks serving on addr until the server is shut down.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation retries can wait out backoffs
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("starting HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
