package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dgallion1/assetree/internal/config"
	"github.com/dgallion1/assetree/internal/search"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP API server for assetree.
type Server struct {
	router chi.Router
	search *search.Client
	pages  *template.Template
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. sc may be nil, in which
// case the search pages report the service as unavailable.
func NewServer(sc *search.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		search: sc,
		pages:  template.Must(template.ParseFS(templateFS, "templates/*.html")),
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.cfg.LogRequests {
		r.Use(RequestLogger(s.log))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Not Found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Get("/test", s.handleTest)

	r.With(middleware.AllowContentType("application/json")).Post("/json", s.handleFormat)

	r.Get("/main", s.handleMain)
	r.Get("/next", s.handleNext)
	r.Get("/prev", s.handlePrev)
	r.Get("/api/stats/search", s.handleSearchStats)

	if s.cfg.StaticDir != "" {
		r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(s.cfg.StaticDir))))
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Test route!"))
}
