// File path: internal/search/documents.go
package search

import (
	"fmt"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

// BuildDocuments decomposes one restaurant's current state into indexable
// document drafts: exactly one restaurant_info document, one category
// document per named category, and one menu_item document per item. Pure
// function; embeddings are attached later by the indexer. Document ids are
// deterministic so a re-index replaces rather than accumulates.
func BuildDocuments(r *menu.Restaurant, menus []menu.Menu) []vector.Document {
	if r == nil {
		return nil
	}
	docs := []vector.Document{restaurantInfoDocument(r)}
	for _, m := range menus {
		for catIdx, category := range m.Extraction.Categories {
			if strings.TrimSpace(category.Name) != "" {
				docs = append(docs, vector.Document{
					ID:           fmt.Sprintf("%s:category:%d", r.ID, catIdx),
					RestaurantID: r.ID,
					Content:      fmt.Sprintf("%s category at %s", category.Name, r.Name),
					ContentType:  vector.TypeCategory,
					Metadata: vector.Metadata{
						CategoryName:   category.Name,
						RestaurantName: r.Name,
					},
				})
			}
			for itemIdx, item := range category.Items {
				docs = append(docs, vector.Document{
					ID:           fmt.Sprintf("%s:item:%d:%d", r.ID, catIdx, itemIdx),
					RestaurantID: r.ID,
					Content:      itemContent(item, r.Name),
					ContentType:  vector.TypeMenuItem,
					Metadata: vector.Metadata{
						ItemName:        item.Name,
						ItemDescription: item.Description,
						ItemPrice:       item.Price,
						CategoryName:    category.Name,
						RestaurantName:  r.Name,
					},
				})
			}
		}
	}
	return docs
}

func restaurantInfoDocument(r *menu.Restaurant) vector.Document {
	address := r.Address
	if strings.TrimSpace(address) == "" {
		address = "address not specified"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s. Located at %s.", r.Name, r.Description, address)
	if strings.TrimSpace(r.Phone) != "" {
		fmt.Fprintf(&b, " Phone: %s.", r.Phone)
	}
	if strings.TrimSpace(r.Website) != "" {
		fmt.Fprintf(&b, " Website: %s.", r.Website)
	}
	return vector.Document{
		ID:           r.ID + ":info",
		RestaurantID: r.ID,
		Content:      b.String(),
		ContentType:  vector.TypeRestaurantInfo,
		Metadata: vector.Metadata{
			RestaurantName: r.Name,
			Description:    r.Description,
			Address:        r.Address,
			Phone:          r.Phone,
			Website:        r.Website,
			Slug:           r.Slug,
		},
	}
}

func itemContent(item menu.Item, restaurantName string) string {
	name := item.Name
	if strings.TrimSpace(name) == "" {
		name = "Unnamed item"
	}
	description := item.Description
	if strings.TrimSpace(description) == "" {
		description = "No description"
	}
	price := item.Price
	if strings.TrimSpace(price) == "" {
		price = "Price not specified"
	}
	return fmt.Sprintf("%s - %s - Price: %s at %s", name, description, price, restaurantName)
}
