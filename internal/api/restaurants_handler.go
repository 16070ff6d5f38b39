// File path: internal/api/restaurants_handler.go
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

type restaurantPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (s *Server) handleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	var payload restaurantPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	restaurant := &menu.Restaurant{
		UserID:      claims.UserID,
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		Address:     strings.TrimSpace(payload.Address),
		Phone:       strings.TrimSpace(payload.Phone),
		Website:     strings.TrimSpace(payload.Website),
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
	}
	if err := s.catalog.SaveRestaurant(r.Context(), restaurant); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("save restaurant: %w", err))
		return
	}
	s.reindexAsync(restaurant.ID)
	writeJSON(w, http.StatusCreated, restaurant)
}

func (s *Server) handleUpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	existing, err := s.catalog.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("restaurant not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load restaurant: %w", err))
		return
	}
	if existing.UserID != claims.UserID {
		writeError(w, http.StatusForbidden, fmt.Errorf("not the owner of this restaurant"))
		return
	}

	var payload restaurantPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(payload.Name) != "" {
		existing.Name = strings.TrimSpace(payload.Name)
	}
	existing.Description = strings.TrimSpace(payload.Description)
	existing.Address = strings.TrimSpace(payload.Address)
	existing.Phone = strings.TrimSpace(payload.Phone)
	existing.Website = strings.TrimSpace(payload.Website)
	if payload.Latitude != nil {
		existing.Latitude = payload.Latitude
	}
	if payload.Longitude != nil {
		existing.Longitude = payload.Longitude
	}

	if err := s.catalog.UpdateRestaurant(r.Context(), existing); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("restaurant not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("update restaurant: %w", err))
		return
	}
	s.reindexAsync(existing.ID)
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleMyRestaurant(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.UserFromContext(r.Context())
	restaurant, err := s.catalog.GetUserRestaurant(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("no restaurant for this user"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load restaurant: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (s *Server) handlePublicRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.catalog.ListPublicRestaurants(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list restaurants: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"restaurants": restaurants})
}

// handleMenuPage serves the public menu page data for one slug.
func (s *Server) handleMenuPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	restaurant, err := s.catalog.GetRestaurantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("menu not found"))
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load restaurant: %w", err))
		return
	}
	menus, err := s.catalog.GetMenusForRestaurant(r.Context(), restaurant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("load menus: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"restaurant": restaurant,
		"menus":      menus,
	})
}
