// File path: internal/api/menus_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/bhanuchaddha/online-menu-card/internal/auth"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
)

type extractMenuRequest struct {
	ImageData    string `json:"image_data"`
	RestaurantID string `json:"restaurant_id"`
}

// handleExtractMenu runs the vision extraction flow over an uploaded menu
// image and stores the result as the restaurant's active menu.
func (s *Server) handleExtractMenu(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	if s.extractor == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("menu extraction unavailable: no provider configured"))
		return
	}

	var req extractMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.ImageData) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("image_data is required"))
		return
	}

	restaurant, err := s.resolveOwnedRestaurant(w, r, claims, req.RestaurantID)
	if err != nil {
		return // resolveOwnedRestaurant already wrote the response
	}

	extraction, imageURL, err := s.extractor.ExtractFromImage(r.Context(), req.ImageData)
	if err != nil {
		if errors.Is(err, menu.ErrMalformedExtraction) {
			writeError(w, http.StatusBadGateway, fmt.Errorf("extraction produced unusable output: %w", err))
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Errorf("extract menu: %w", err))
		return
	}

	saved, err := s.catalog.UpsertMenu(r.Context(), restaurant.ID, claims.UserID, imageURL, extraction)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save menu: %w", err))
		return
	}
	s.reindexAsync(restaurant.ID)
	writeJSON(w, http.StatusCreated, saved)
}

type upsertMenuRequest struct {
	ImageURL   string          `json:"image_url"`
	Extraction menu.Extraction `json:"extracted_data"`
}

// handleUpsertMenu replaces a restaurant's active menu with manually edited
// data.
func (s *Server) handleUpsertMenu(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	restaurant, err := s.resolveOwnedRestaurant(w, r, claims, chi.URLParam(r, "id"))
	if err != nil {
		return
	}

	var req upsertMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	saved, err := s.catalog.UpsertMenu(r.Context(), restaurant.ID, claims.UserID, req.ImageURL, req.Extraction)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("restaurant not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save menu: %w", err))
		return
	}
	s.reindexAsync(restaurant.ID)
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteMenu(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	existing, err := s.catalog.GetMenu(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("menu not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load menu: %w", err))
		return
	}
	if err := s.catalog.DeleteMenu(r.Context(), id, claims.UserID); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("menu not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("delete menu: %w", err))
		return
	}
	if existing.RestaurantID != "" {
		s.reindexAsync(existing.RestaurantID)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// resolveOwnedRestaurant loads the restaurant the request targets, defaulting
// to the caller's own restaurant when no id is given, and enforces ownership.
// On failure it writes the error response and returns a non-nil error.
func (s *Server) resolveOwnedRestaurant(w http.ResponseWriter, r *http.Request, claims *auth.Claims, restaurantID string) (*menu.Restaurant, error) {
	var (
		restaurant *menu.Restaurant
		err        error
	)
	if strings.TrimSpace(restaurantID) == "" {
		restaurant, err = s.catalog.GetUserRestaurant(r.Context(), claims.UserID)
	} else {
		restaurant, err = s.catalog.GetRestaurant(r.Context(), restaurantID)
	}
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("restaurant not found"))
			return nil, err
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load restaurant: %w", err))
		return nil, err
	}
	if restaurant.UserID != claims.UserID {
		err = fmt.Errorf("not the owner of this restaurant")
		writeError(w, http.StatusForbidden, err)
		return nil, err
	}
	return restaurant, nil
}
