// File path: internal/menu/extraction.go
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Extraction is the structured payload produced by the vision model. The shape
// is validated on decode; callers never see a menu with a nil category list.
type Extraction struct {
	RestaurantName string     `json:"restaurant_name,omitempty"`
	Categories     []Category `json:"categories"`
}

type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Item struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price"`
	DietaryInfo []string `json:"dietary_info,omitempty"`
}

// ErrMalformedExtraction marks payloads that do not decode into the expected
// category/item shape. Such menus are rejected on read instead of propagating
// partial data downstream.
var ErrMalformedExtraction = errors.New("malformed menu extraction")

// DecodeExtraction parses and validates a stored extraction payload.
func DecodeExtraction(data []byte) (Extraction, error) {
	if len(data) == 0 {
		return Extraction{Categories: []Category{}}, nil
	}
	var ext Extraction
	if err := json.Unmarshal(data, &ext); err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}
	ext.normalize()
	return ext, nil
}

// Encode renders the extraction back into its canonical JSON form.
func (e Extraction) Encode() ([]byte, error) {
	copied := e
	copied.normalize()
	return json.Marshal(copied)
}

func (e *Extraction) normalize() {
	e.RestaurantName = strings.TrimSpace(e.RestaurantName)
	if e.Categories == nil {
		e.Categories = []Category{}
	}
	categories := e.Categories[:0]
	for _, cat := range e.Categories {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Items == nil {
			cat.Items = []Item{}
		}
		items := cat.Items[:0]
		for _, item := range cat.Items {
			item.Name = strings.TrimSpace(item.Name)
			item.Description = strings.TrimSpace(item.Description)
			item.Price = strings.TrimSpace(item.Price)
			if item.Name == "" && item.Description == "" && item.Price == "" {
				continue
			}
			items = append(items, item)
		}
		cat.Items = items
		if cat.Name == "" && len(cat.Items) == 0 {
			continue
		}
		categories = append(categories, cat)
	}
	e.Categories = categories
}

// ItemCount reports the number of items across all categories.
func (e Extraction) ItemCount() int {
	total := 0
	for _, cat := range e.Categories {
		total += len(cat.Items)
	}
	return total
}
