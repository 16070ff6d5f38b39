// File path: internal/search/context.go
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

// FallbackContext is emitted when retrieval produced nothing above the
// threshold, so the assistant answers from general knowledge instead of
// hallucinating restaurants.
const FallbackContext = "I couldn't find any restaurants that closely match your query. I'll provide general assistance.\n\n"

const maxItemsPerRestaurant = 3

// ProfileSource looks up the full restaurant profile behind a retrieved
// document so sections can carry address, phone and menu link even when only
// a menu item matched. *sqlite.Store satisfies it.
type ProfileSource interface {
	GetRestaurant(ctx context.Context, id string) (*menu.Restaurant, error)
}

// Assembler turns ranked search results into the grounding block handed to
// the chat model.
type Assembler struct {
	profiles ProfileSource
}

func NewAssembler(profiles ProfileSource) *Assembler {
	return &Assembler{profiles: profiles}
}

type contextGroup struct {
	profile    vector.Metadata
	resolved   bool
	categories []string
	items      []vector.Metadata
}

// Build groups results by restaurant, in the order each restaurant first
// appears, and renders one section per restaurant: a bold name header,
// whichever profile lines are present, a combined category list, and at most
// three menu items. With no results it returns FallbackContext. A restaurant
// missing from the profile source is still rendered from document metadata
// rather than dropped.
func (a *Assembler) Build(ctx context.Context, results []vector.SearchResult) string {
	if len(results) == 0 {
		return FallbackContext
	}

	order := make([]string, 0, len(results))
	groups := make(map[string]*contextGroup)
	for _, result := range results {
		key := result.RestaurantID
		if key == "" {
			key = result.Metadata.RestaurantName
		}
		if key == "" {
			continue
		}
		group, ok := groups[key]
		if !ok {
			group = &contextGroup{}
			group.profile.RestaurantName = result.Metadata.RestaurantName
			groups[key] = group
			order = append(order, key)
			a.resolveProfile(ctx, result.RestaurantID, group)
		}
		switch result.ContentType {
		case vector.TypeRestaurantInfo:
			if !group.resolved {
				group.profile = result.Metadata
			}
		case vector.TypeCategory:
			group.categories = appendUnique(group.categories, result.Metadata.CategoryName)
		case vector.TypeMenuItem:
			group.items = append(group.items, result.Metadata)
		}
	}

	if len(order) == 0 {
		return FallbackContext
	}

	var b strings.Builder
	b.WriteString("Here are the most relevant restaurants and menu items I found:\n\n")
	for _, key := range order {
		writeSection(&b, groups[key])
	}
	return b.String()
}

func (a *Assembler) resolveProfile(ctx context.Context, restaurantID string, group *contextGroup) {
	if a.profiles == nil || restaurantID == "" {
		return
	}
	restaurant, err := a.profiles.GetRestaurant(ctx, restaurantID)
	if err != nil {
		common.Logger().Debug("search: context profile lookup failed",
			"restaurant_id", restaurantID, "error", err)
		return
	}
	group.resolved = true
	group.profile = vector.Metadata{
		RestaurantName: restaurant.Name,
		Description:    restaurant.Description,
		Address:        restaurant.Address,
		Phone:          restaurant.Phone,
		Website:        restaurant.Website,
		Slug:           restaurant.Slug,
	}
}

func writeSection(b *strings.Builder, group *contextGroup) {
	profile := group.profile
	fmt.Fprintf(b, "**%s**\n", profile.RestaurantName)
	if profile.Description != "" {
		fmt.Fprintf(b, "Description: %s\n", profile.Description)
	}
	if profile.Address != "" {
		fmt.Fprintf(b, "Address: %s\n", profile.Address)
	}
	if profile.Phone != "" {
		fmt.Fprintf(b, "Phone: %s\n", profile.Phone)
	}
	if profile.Website != "" {
		fmt.Fprintf(b, "Website: %s\n", profile.Website)
	}
	if profile.Slug != "" {
		fmt.Fprintf(b, "Menu Link: /menu/%s\n", profile.Slug)
	}
	if len(group.categories) > 0 {
		fmt.Fprintf(b, "Categories: %s\n", strings.Join(group.categories, ", "))
	}
	if len(group.items) > 0 {
		b.WriteString("Menu Items:\n")
		for i, item := range group.items {
			if i == maxItemsPerRestaurant {
				break
			}
			fmt.Fprintf(b, "- %s", item.ItemName)
			if item.ItemPrice != "" {
				fmt.Fprintf(b, " (%s)", item.ItemPrice)
			}
			if item.ItemDescription != "" {
				fmt.Fprintf(b, ": %s", item.ItemDescription)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
}

func appendUnique(list []string, value string) []string {
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// ResultsFromRestaurants adapts lexical search rows into pseudo-results so
// the same assembler renders both retrieval paths. Each restaurant
// contributes its profile plus the items of its stored menus.
func ResultsFromRestaurants(restaurants []menu.Restaurant, menusFor func(r *menu.Restaurant) []menu.Menu) []vector.SearchResult {
	results := make([]vector.SearchResult, 0, len(restaurants))
	for i := range restaurants {
		restaurant := &restaurants[i]
		info := restaurantInfoDocument(restaurant)
		results = append(results, vector.SearchResult{Document: info, Similarity: 1})
		if menusFor == nil {
			continue
		}
		for _, m := range menusFor(restaurant) {
			for _, category := range m.Extraction.Categories {
				for _, item := range category.Items {
					results = append(results, vector.SearchResult{
						Document: vector.Document{
							RestaurantID: restaurant.ID,
							ContentType:  vector.TypeMenuItem,
							Metadata: vector.Metadata{
								ItemName:        item.Name,
								ItemDescription: item.Description,
								ItemPrice:       item.Price,
								CategoryName:    category.Name,
								RestaurantName:  restaurant.Name,
							},
						},
						Similarity: 1,
					})
				}
			}
		}
	}
	return results
}
