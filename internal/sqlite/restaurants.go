// File path: internal/sqlite/restaurants.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

// SaveRestaurant inserts a new restaurant profile. Missing ids and slugs are
// derived; the slug must end up unique or the insert fails.
func (s *Store) SaveRestaurant(ctx context.Context, r *menu.Restaurant) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if r == nil {
		return errors.New("restaurant required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("restaurant name required")
	}
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	if strings.TrimSpace(r.Slug) == "" {
		r.Slug = menu.Slugify(r.Name)
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	const query = `INSERT INTO restaurants
                (id, user_id, name, slug, description, address, phone, website, latitude, longitude, created_at, updated_at)
                VALUES (:id, :user_id, :name, :slug, :description, :address, :phone, :website, :latitude, :longitude, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, query, r); err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// UpdateRestaurant rewrites the mutable profile fields of an existing
// restaurant.
func (s *Store) UpdateRestaurant(ctx context.Context, r *menu.Restaurant) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if r == nil || strings.TrimSpace(r.ID) == "" {
		return errors.New("restaurant id required")
	}
	r.UpdatedAt = time.Now().UTC()
	const query = `UPDATE restaurants SET
                name = :name, slug = :slug, description = :description, address = :address,
                phone = :phone, website = :website, latitude = :latitude, longitude = :longitude,
                updated_at = :updated_at
                WHERE id = :id`
	result, err := s.db.NamedExecContext(ctx, query, r)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRestaurant looks a restaurant up by id.
func (s *Store) GetRestaurant(ctx context.Context, id string) (*menu.Restaurant, error) {
	return s.getRestaurant(ctx, `SELECT * FROM restaurants WHERE id = ?`, id)
}

// GetRestaurantBySlug looks a restaurant up by its public slug.
func (s *Store) GetRestaurantBySlug(ctx context.Context, slug string) (*menu.Restaurant, error) {
	return s.getRestaurant(ctx, `SELECT * FROM restaurants WHERE slug = ?`, slug)
}

// GetUserRestaurant returns the restaurant owned by the given user, if any.
func (s *Store) GetUserRestaurant(ctx context.Context, userID string) (*menu.Restaurant, error) {
	return s.getRestaurant(ctx, `SELECT * FROM restaurants WHERE user_id = ? ORDER BY created_at LIMIT 1`, userID)
}

func (s *Store) getRestaurant(ctx context.Context, query string, arg interface{}) (*menu.Restaurant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var r menu.Restaurant
	if err := s.db.GetContext(ctx, &r, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query restaurant: %w", err)
	}
	return &r, nil
}

// ListRestaurants returns every restaurant, oldest first. Insertion order is
// the tie-break order the search layer relies on.
func (s *Store) ListRestaurants(ctx context.Context) ([]menu.Restaurant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var out []menu.Restaurant
	if err := s.db.SelectContext(ctx, &out, `SELECT * FROM restaurants ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

// PublicRestaurant is a restaurant row enriched with its menu count for the
// public listing page.
type PublicRestaurant struct {
	menu.Restaurant
	MenuCount int `json:"menu_count" db:"menu_count"`
}

// ListPublicRestaurants returns restaurants that have at least one menu,
// newest first, for the public homepage.
func (s *Store) ListPublicRestaurants(ctx context.Context) ([]PublicRestaurant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	const query = `SELECT r.*, COUNT(m.id) AS menu_count
                FROM restaurants r
                JOIN menus m ON m.restaurant_id = r.id
                GROUP BY r.id
                ORDER BY r.created_at DESC`
	var out []PublicRestaurant
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list public restaurants: %w", err)
	}
	return out, nil
}
