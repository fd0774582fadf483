// Package server exposes the map page and its JSON API over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/herroute/internal/metrics"
	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/service"
	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Searcher resolves a query and applies it to a session.
type Searcher interface {
	Search(ctx context.Context, ctrl *view.Controller, query string) (service.SearchResult, error)
}

// StreetStore yields the current street set.
type StreetStore interface {
	Snapshot() []models.StreetRecord
}

// PageRenderer renders the HTML page.
type PageRenderer interface {
	Page(state view.State, records []models.StreetRecord, notice string) ([]byte, error)
}

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	Log        *slog.Logger
	Sessions   *view.Sessions
	Search     Searcher
	Streets    StreetStore
	Renderer   PageRenderer
	Metrics    *metrics.Metrics
	SessionTTL time.Duration
}

// Server holds the handlers' dependencies.
type Server struct {
	log        *slog.Logger
	sessions   *view.Sessions
	search     Searcher
	streets    StreetStore
	renderer   PageRenderer
	metrics    *metrics.Metrics
	sessionTTL time.Duration
}

// New creates a Server from its dependencies.
func New(deps Deps) *Server {
	return &Server{
		log:        deps.Log,
		sessions:   deps.Sessions,
		search:     deps.Search,
		streets:    deps.Streets,
		renderer:   deps.Renderer,
		metrics:    deps.Metrics,
		sessionTTL: deps.SessionTTL,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(s.log))

	page := router.Group("/", s.withSession())
	page.GET("/", s.handleIndex)
	page.POST("/panel/home", s.handlePanel((*view.Controller).Home))
	page.POST("/panel/contact", s.handlePanel((*view.Controller).Mail))
	page.POST("/panel/settings", s.handlePanel((*view.Controller).ToggleSettings))
	page.POST("/settings/position", s.handlePreset)
	page.POST("/settings/language", s.handleLanguage)
	page.POST("/settings/dark-mode", s.handlePanel((*view.Controller).ToggleDarkMode))
	page.POST("/contact", s.handleContact)

	api := router.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet},
		AllowHeaders:    []string{"Origin", "Accept", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))
	api.GET("/streets", s.handleStreets)
	api.GET("/streets.geojson", s.handleStreetsGeoJSON)
	api.POST("/search", s.withSession(), s.handleSearch)
	api.GET("/state", s.withSession(), s.handleState)

	return router
}
