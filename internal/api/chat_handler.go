// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/agent"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/llm/providers"
)

type chatRequest struct {
	Message string       `json:"message"`
	History []agent.Turn `json:"conversation_history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("message is required"))
		return
	}

	reply, err := s.assistant.Respond(r.Context(), req.Message, req.History)
	if err != nil {
		var unavailable *providers.UnavailableError
		switch {
		case errors.Is(err, llm.ErrNoProvider), errors.As(err, &unavailable):
			writeError(w, http.StatusServiceUnavailable, err)
		default:
			writeError(w, http.StatusInternalServerError, fmt.Errorf("chat failed: %w", err))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"response":             reply.Response,
		"restaurants_found":    reply.RestaurantsFound,
		"search_results_count": reply.SearchResultsCount,
	})
}
