package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorechart/internal/archive"
	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/catalog"
	"github.com/dukerupert/chorechart/internal/chart"
	"github.com/dukerupert/chorechart/internal/email"
	"github.com/dukerupert/chorechart/internal/handler"
	"github.com/dukerupert/chorechart/internal/middleware"
	"github.com/dukerupert/chorechart/internal/store"
	ws "github.com/dukerupert/chorechart/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	charts         *store.ChartStore
	chartH         *handler.ChartHandler
	completionH    *handler.CompletionHandler
	shareH         *handler.ShareHandler
	catalogH       *handler.CatalogHandler
	tokens         *auth.Tokens
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	logger         *slog.Logger
}

// Options carries the settings that shape routing rather than storage.
type Options struct {
	EmailPerHour   int
	AllowedOrigins []string
}

func New(db *sql.DB, emailClient *email.Client, archiver *archive.Archiver, tokens *auth.Tokens, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	chartStore := store.NewChartStore(db)
	completionStore := store.NewCompletionStore(db)

	templates := catalog.Default()
	editor := chart.NewEditor(templates)

	perHour := opts.EmailPerHour
	if perHour <= 0 {
		perHour = 10
	}

	return &Server{
		db:             db,
		hub:            hub,
		charts:         chartStore,
		chartH:         handler.NewChartHandler(chartStore, completionStore, editor, hub, logger.With("component", "chart")),
		completionH:    handler.NewCompletionHandler(chartStore, completionStore, editor, hub, logger.With("component", "completion")),
		shareH:         handler.NewShareHandler(chartStore, completionStore, editor, hub, emailClient, archiver, logger.With("component", "share")),
		catalogH:       handler.NewCatalogHandler(templates, chartStore, editor, logger.With("component", "catalog")),
		tokens:         tokens,
		rateLimiter:    middleware.NewRateLimiter(perHour, time.Hour),
		allowedOrigins: opts.AllowedOrigins,
		logger:         logger,
	}
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.allowedOrigins, s.canWatch))

	// Catalog
	mux.HandleFunc("GET /api/templates", s.catalogH.ListTemplates)
	mux.HandleFunc("GET /api/templates/{id}", s.catalogH.GetTemplate)
	mux.HandleFunc("GET /api/suggestions", s.catalogH.Suggestions)

	// Charts
	mux.HandleFunc("GET /api/charts", s.chartH.List)
	mux.HandleFunc("POST /api/charts", s.chartH.Create)
	mux.HandleFunc("GET /api/charts/{id}", s.chartH.Get)
	mux.HandleFunc("PUT /api/charts/{id}", s.chartH.Rename)
	mux.HandleFunc("DELETE /api/charts/{id}", s.chartH.Delete)

	mux.HandleFunc("POST /api/charts/{id}/children", s.chartH.AddChild)
	mux.HandleFunc("DELETE /api/charts/{id}/children/{childID}", s.chartH.RemoveChild)
	mux.HandleFunc("GET /api/charts/{id}/children/{childID}/chores", s.chartH.ChildChores)
	mux.HandleFunc("GET /api/charts/{id}/children/{childID}/suggestions", s.catalogH.ChildSuggestions)

	mux.HandleFunc("POST /api/charts/{id}/chores", s.chartH.AddChore)
	mux.HandleFunc("DELETE /api/charts/{id}/chores/{choreID}", s.chartH.RemoveChore)

	mux.HandleFunc("POST /api/charts/{id}/assignments/toggle", s.chartH.ToggleAssignment)
	mux.HandleFunc("POST /api/charts/{id}/rotate", s.chartH.Rotate)
	mux.HandleFunc("GET /api/charts/{id}/unassigned", s.chartH.Unassigned)
	mux.HandleFunc("GET /api/charts/{id}/agenda", s.chartH.Agenda)
	mux.HandleFunc("GET /api/charts/{id}/week", s.chartH.Week)

	// Completions
	mux.HandleFunc("POST /api/charts/{id}/completions", s.completionH.Create)
	mux.HandleFunc("DELETE /api/charts/{id}/completions/{completionID}", s.completionH.Delete)
	mux.HandleFunc("POST /api/charts/{id}/completions/{completionID}/verify", s.completionH.Verify)
	mux.HandleFunc("PUT /api/charts/{id}/pin", s.completionH.SetPIN)
	mux.HandleFunc("GET /api/charts/{id}/leaderboard", s.completionH.Leaderboard)

	// Sharing
	mux.HandleFunc("POST /api/charts/{id}/email", s.rateLimitedHandler(s.shareH.Email))
	mux.HandleFunc("GET /api/charts/{id}/export.csv", s.shareH.ExportCSV)
	mux.HandleFunc("POST /api/charts/{id}/export/archive", s.shareH.Archive)
	mux.HandleFunc("GET /api/charts/{id}/export/archives", s.shareH.ListArchives)
	mux.HandleFunc("GET /api/archive/status", s.shareH.ArchiveStatus)

	var h http.Handler = mux
	h = middleware.Authenticate(s.tokens)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return middleware.Recover(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// canWatch applies the REST ownership rule to websocket subscriptions.
func (s *Server) canWatch(_ context.Context, userID, chartID string) (bool, error) {
	c, err := s.charts.GetByID(chartID)
	if err != nil {
		return false, err
	}
	return c != nil && (c.UserID == "" || c.UserID == userID), nil
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
