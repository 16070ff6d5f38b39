// File path: internal/api/index_handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
)

type indexRequest struct {
	RestaurantID string `json:"restaurant_id"`
	IndexAll     bool   `json:"index_all"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if s.orchestrator.Provider() == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("indexing unavailable: no embedding provider configured"))
		return
	}

	if req.IndexAll {
		report, err := s.indexer.ReindexAll(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("reindex all: %w", err))
			return
		}
		writeJSON(w, http.StatusOK, report)
		return
	}

	restaurantID := strings.TrimSpace(req.RestaurantID)
	if restaurantID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("restaurant_id or index_all is required"))
		return
	}
	count, err := s.indexer.ReindexRestaurant(r.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("restaurant not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("reindex: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"restaurant_id": restaurantID,
		"documents":     count,
	})
}

// reindexAsync refreshes one restaurant's documents after a profile or menu
// write. Failures are logged, not surfaced: the write already succeeded and
// the index can be rebuilt later.
func (s *Server) reindexAsync(restaurantID string) {
	if s.indexer == nil || s.orchestrator.Provider() == nil {
		return
	}
	go func() {
		if _, err := s.indexer.ReindexRestaurant(context.Background(), restaurantID); err != nil {
			common.Logger().Warn("api: background reindex failed",
				"restaurant_id", restaurantID, "error", err)
		}
	}()
}
