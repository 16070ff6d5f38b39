// File path: internal/api/geo_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("address parameter is required"))
		return
	}
	results, err := s.geocoder.Geocode(r.Context(), address)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("geocode address: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": results,
	})
}

type reverseGeocodeRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	var req reverseGeocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("latitude and longitude are required"))
		return
	}
	place, err := s.geocoder.Reverse(r.Context(), *req.Lat, *req.Lng)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("reverse geocode: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"address": place.DisplayName,
		"details": place.Details,
	})
}
