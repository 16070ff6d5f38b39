// File path: internal/sqlite/menus.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

type menuRow struct {
	ID             string    `db:"id"`
	RestaurantID   string    `db:"restaurant_id"`
	UserID         string    `db:"user_id"`
	RestaurantName string    `db:"restaurant_name"`
	ImageURL       string    `db:"image_url"`
	ExtractedData  []byte    `db:"extracted_data"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r menuRow) decode() (menu.Menu, error) {
	ext, err := menu.DecodeExtraction(r.ExtractedData)
	if err != nil {
		return menu.Menu{}, err
	}
	return menu.Menu{
		ID:             r.ID,
		RestaurantID:   r.RestaurantID,
		UserID:         r.UserID,
		RestaurantName: r.RestaurantName,
		ImageURL:       r.ImageURL,
		Extraction:     ext,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

// SaveMenu inserts a new menu row for a restaurant.
func (s *Store) SaveMenu(ctx context.Context, m *menu.Menu) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	if m == nil || strings.TrimSpace(m.RestaurantID) == "" {
		return errors.New("menu restaurant id required")
	}
	if strings.TrimSpace(m.ID) == "" {
		m.ID = uuid.NewString()
	}
	payload, err := m.Extraction.Encode()
	if err != nil {
		return fmt.Errorf("encode extraction: %w", err)
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	const query = `INSERT INTO menus
                (id, restaurant_id, user_id, restaurant_name, image_url, extracted_data, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, m.ID, m.RestaurantID, m.UserID, m.RestaurantName, m.ImageURL, string(payload), m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("insert menu: %w", err)
	}
	return nil
}

// UpsertMenu replaces the restaurant's active menu, creating it when absent.
// The restaurant's own name always wins over whatever the extraction guessed.
func (s *Store) UpsertMenu(ctx context.Context, restaurantID, userID, imageURL string, ext menu.Extraction) (*menu.Menu, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	restaurant, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	payload, err := ext.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode extraction: %w", err)
	}
	now := time.Now().UTC()
	id := uuid.NewString()
	const query = `INSERT INTO menus
                (id, restaurant_id, user_id, restaurant_name, image_url, extracted_data, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?)
                ON CONFLICT(restaurant_id) DO UPDATE SET
                        restaurant_name = excluded.restaurant_name,
                        image_url = excluded.image_url,
                        extracted_data = excluded.extracted_data,
                        updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, id, restaurantID, userID, restaurant.Name, imageURL, string(payload), now, now); err != nil {
		return nil, fmt.Errorf("upsert menu: %w", err)
	}
	return s.GetMenuForRestaurant(ctx, restaurantID)
}

// GetMenu looks a menu up by id.
func (s *Store) GetMenu(ctx context.Context, id string) (*menu.Menu, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row menuRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM menus WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query menu: %w", err)
	}
	decoded, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}

// GetMenuForRestaurant returns the restaurant's active menu.
func (s *Store) GetMenuForRestaurant(ctx context.Context, restaurantID string) (*menu.Menu, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	var row menuRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM menus WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query menu: %w", err)
	}
	decoded, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &decoded, nil
}

// GetMenusForRestaurant returns every menu associated with a restaurant.
// Rows are matched on restaurant_id; when none exist, rows imported from the
// legacy schema are matched on (user_id, restaurant_name) as a compatibility
// shim. Malformed extraction payloads are skipped with a warning rather than
// propagated.
func (s *Store) GetMenusForRestaurant(ctx context.Context, r *menu.Restaurant) ([]menu.Menu, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	if r == nil {
		return nil, errors.New("restaurant required")
	}
	rows, err := s.selectMenus(ctx, `SELECT * FROM menus WHERE restaurant_id = ? ORDER BY created_at DESC`, r.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		rows, err = s.selectMenus(ctx, `SELECT * FROM menus WHERE user_id = ? AND restaurant_name = ? ORDER BY created_at DESC`, r.UserID, r.Name)
		if err != nil {
			return nil, err
		}
	}
	logger := common.Logger()
	out := make([]menu.Menu, 0, len(rows))
	for _, row := range rows {
		decoded, err := row.decode()
		if err != nil {
			logger.Warn("sqlite: skipping malformed menu", "menu_id", row.ID, "error", err)
			continue
		}
		out = append(out, decoded)
	}
	return out, nil
}

func (s *Store) selectMenus(ctx context.Context, query string, args ...interface{}) ([]menuRow, error) {
	var rows []menuRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	return rows, nil
}

// DeleteMenu removes a menu owned by the given user.
func (s *Store) DeleteMenu(ctx context.Context, id, userID string) error {
	if s == nil || s.db == nil {
		return errors.New("sqlite store not initialised")
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM menus WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete menu: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
