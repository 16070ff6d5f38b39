// File path: internal/api/search_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
)

// handleSearch is the lexical path: a LIKE scan over restaurant profiles and
// stored menu text. An empty query lists the public directory instead.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		restaurants, err := s.catalog.ListPublicRestaurants(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("list restaurants: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": restaurants})
		return
	}

	restaurants, err := s.catalog.TextSearch(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("text search: %w", err))
		return
	}
	common.Logger().Debug("api: text search served", "query", query, "results", len(restaurants))
	writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": restaurants})
}

type semanticSearchRequest struct {
	Query     string  `json:"query"`
	Threshold float32 `json:"threshold"`
	Limit     int     `json:"limit"`
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}
	if s.searcher == nil || !s.searcher.Available() {
		writeError(w, http.StatusServiceUnavailable, errors.New("search unavailable"))
		return
	}

	results, err := s.searcher.Search(r.Context(), req.Query, req.Threshold, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("search unavailable: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}
