// File path: internal/vector/store.go
package vector

import "context"

// Content types for indexed documents.
const (
	TypeRestaurantInfo = "restaurant_info"
	TypeCategory       = "category"
	TypeMenuItem       = "menu_item"
)

// Metadata is the typed bag attached to an indexed document. Fields are
// populated per content type and rendered verbatim by the context assembler.
type Metadata struct {
	RestaurantName  string `json:"restaurant_name,omitempty"`
	Description     string `json:"description,omitempty"`
	Address         string `json:"address,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Website         string `json:"website,omitempty"`
	Slug            string `json:"slug,omitempty"`
	CategoryName    string `json:"category_name,omitempty"`
	ItemName        string `json:"item_name,omitempty"`
	ItemDescription string `json:"item_description,omitempty"`
	ItemPrice       string `json:"item_price,omitempty"`
}

// Document is one indexable unit of text, metadata and vector derived from a
// restaurant or one of its menu parts. Documents are rebuildable at any time;
// a restaurant's full set is replaced wholesale on every re-index.
type Document struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Content      string    `json:"content"`
	ContentType  string    `json:"content_type"`
	Metadata     Metadata  `json:"metadata"`
	Embedding    []float32 `json:"embedding,omitempty"`
}

// SearchResult is one retrieved document with its similarity score in [0,1].
type SearchResult struct {
	Document
	Similarity float32 `json:"similarity"`
}

// Store persists document vectors and answers nearest-neighbor queries.
// Implementations must keep results ordered by similarity descending with
// ties broken by insertion order.
type Store interface {
	Available() bool
	DeleteRestaurant(ctx context.Context, restaurantID string) error
	Upsert(ctx context.Context, docs []Document) error
	Search(ctx context.Context, vector []float32, threshold float32, limit int) ([]SearchResult, error)
}

// Dimension returns the first non-empty vector length in the batch.
func Dimension(vectors [][]float32) int {
	for _, vec := range vectors {
		if len(vec) > 0 {
			return len(vec)
		}
	}
	return 0
}
