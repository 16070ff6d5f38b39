// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/bhanuchaddha/online-menu-card/internal/agent"
	"github.com/bhanuchaddha/online-menu-card/internal/auth"
	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/data/orchestrator"
	"github.com/bhanuchaddha/online-menu-card/internal/extract"
	"github.com/bhanuchaddha/online-menu-card/internal/geo"
	"github.com/bhanuchaddha/online-menu-card/internal/search"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type Server struct {
	router    chi.Router
	catalog   *sqlite.Store
	vector    vector.Store
	searcher  *search.Searcher
	indexer   *search.Indexer
	assistant *agent.Assistant
	extractor *extract.Service
	geocoder  *geo.Client

	orchestrator *orchestrator.Orchestrator
}

func NewServer(orch *orchestrator.Orchestrator) (*Server, error) {
	if orch == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	catalog := orch.Catalog()
	if catalog == nil {
		return nil, fmt.Errorf("catalog store unavailable")
	}
	providerName := "none"
	if provider := orch.Provider(); provider != nil {
		providerName = provider.Name()
	}
	vectorClient := orch.Vector()
	common.Logger().Info(
		"api: building server",
		"provider", providerName,
		"vector_available", vectorClient != nil && vectorClient.Available(),
	)
	srv := &Server{
		router:       chi.NewRouter(),
		catalog:      catalog,
		vector:       vectorClient,
		searcher:     orch.Searcher(),
		indexer:      orch.Indexer(),
		assistant:    orch.Assistant(),
		extractor:    orch.Extractor(),
		geocoder:     orch.Geocoder(),
		orchestrator: orch,
	}
	srv.routes()
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/search", s.handleSearch)
	s.router.Post("/v1/search/semantic", s.handleSemanticSearch)
	s.router.Post("/v1/chat", s.handleChat)
	s.router.Post("/v1/index", s.handleIndex)

	s.router.Get("/v1/restaurants", s.handlePublicRestaurants)
	s.router.Get("/v1/menu/{slug}", s.handleMenuPage)
	s.router.Get("/v1/geocode", s.handleGeocode)
	s.router.Post("/v1/geocode/reverse", s.handleReverseGeocode)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Post("/v1/restaurants", s.handleCreateRestaurant)
		r.Put("/v1/restaurants/{id}", s.handleUpdateRestaurant)
		r.Get("/v1/restaurants/me", s.handleMyRestaurant)
		r.Post("/v1/menus/extract", s.handleExtractMenu)
		r.Put("/v1/restaurants/{id}/menu", s.handleUpsertMenu)
		r.Delete("/v1/menus/{id}", s.handleDeleteMenu)
	})

	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Get("/debug/vars", expvar.Handler().ServeHTTP)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
