// File path: internal/menu/types.go
package menu

import (
	"strings"
	"time"
)

// Restaurant is the owner-managed profile backing a public menu page. The slug
// is the only public lookup key and must stay globally unique.
type Restaurant struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Address     string    `json:"address,omitempty" db:"address"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Website     string    `json:"website,omitempty" db:"website"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Menu is one extracted or manually entered menu. Restaurants keep a single
// active menu; RestaurantID is the canonical join key. RestaurantName is kept
// for compatibility with rows imported from the legacy schema, which joined on
// (user_id, restaurant_name).
type Menu struct {
	ID             string     `json:"id" db:"id"`
	RestaurantID   string     `json:"restaurant_id" db:"restaurant_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	RestaurantName string     `json:"restaurant_name" db:"restaurant_name"`
	ImageURL       string     `json:"image_url,omitempty" db:"image_url"`
	Extraction     Extraction `json:"extracted_data"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Slugify derives a URL-safe slug from a restaurant name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
