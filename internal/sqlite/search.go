// File path: internal/sqlite/search.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

const textSearchLimit = 10

// TextSearch matches restaurants whose name, description or address contains
// the query, or whose stored menu text contains it. Case-insensitive substring
// matching, distinct restaurants, capped at a small fixed limit. An empty
// query matches nothing.
func (s *Store) TextSearch(ctx context.Context, query string) ([]menu.Restaurant, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("sqlite store not initialised")
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}
	telemetry.RecordTextSearch()
	pattern := "%" + strings.ToLower(trimmed) + "%"
	const stmt = `SELECT DISTINCT r.*
                FROM restaurants r
                LEFT JOIN menus m ON m.restaurant_id = r.id
                        OR (m.user_id = r.user_id AND m.restaurant_name = r.name)
                WHERE LOWER(r.name) LIKE ?
                   OR LOWER(r.description) LIKE ?
                   OR LOWER(r.address) LIKE ?
                   OR LOWER(m.restaurant_name) LIKE ?
                   OR LOWER(m.extracted_data) LIKE ?
                LIMIT ?`
	var out []menu.Restaurant
	err := s.db.SelectContext(ctx, &out, stmt, pattern, pattern, pattern, pattern, pattern, textSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	return out, nil
}
