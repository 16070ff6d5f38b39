// File path: internal/search/context_test.go
package search

import (
	"context"
	"strings"
	"testing"

	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type fakeProfiles map[string]*menu.Restaurant

func (f fakeProfiles) GetRestaurant(_ context.Context, id string) (*menu.Restaurant, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, sqlite.ErrNotFound
}

func itemResult(restaurantID, restaurantName, itemName, price, description string) vector.SearchResult {
	return vector.SearchResult{
		Document: vector.Document{
			RestaurantID: restaurantID,
			ContentType:  vector.TypeMenuItem,
			Metadata: vector.Metadata{
				RestaurantName:  restaurantName,
				ItemName:        itemName,
				ItemPrice:       price,
				ItemDescription: description,
			},
		},
		Similarity: 0.9,
	}
}

func TestBuildContextGroupsByRestaurant(t *testing.T) {
	profiles := fakeProfiles{
		"rest-1": {ID: "rest-1", Name: "Bella Vista", Slug: "bella-vista", Address: "12 Harbor Street"},
		"rest-2": {ID: "rest-2", Name: "Noodle Bar", Slug: "noodle-bar"},
	}
	var results []vector.SearchResult
	for i, name := range []string{"Carbonara", "Cacio e Pepe", "Tiramisu", "Lasagna", "Bruschetta"} {
		price := "$10"
		if i%2 == 0 {
			price = ""
		}
		results = append(results, itemResult("rest-1", "Bella Vista", name, price, "tasty"))
	}
	for _, name := range []string{"Ramen", "Udon", "Gyoza", "Tempura", "Mochi"} {
		results = append(results, itemResult("rest-2", "Noodle Bar", name, "$12", ""))
	}

	text := NewAssembler(profiles).Build(context.Background(), results)

	if got := strings.Count(text, "**"); got != 4 {
		t.Fatalf("expected exactly 2 bold headers, found %d markers in:\n%s", got/2, text)
	}
	first := strings.Index(text, "**Bella Vista**")
	second := strings.Index(text, "**Noodle Bar**")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("sections missing or out of first-seen order:\n%s", text)
	}
	if got := strings.Count(text, "- "); got != 6 {
		t.Fatalf("expected 3 items per restaurant, found %d item lines:\n%s", got, text)
	}
	if !strings.Contains(text, "Address: 12 Harbor Street") {
		t.Fatalf("resolved profile address missing:\n%s", text)
	}
	if !strings.Contains(text, "Menu Link: /menu/noodle-bar") {
		t.Fatalf("menu link missing:\n%s", text)
	}
}

func TestBuildContextItemLineFormat(t *testing.T) {
	results := []vector.SearchResult{
		itemResult("rest-1", "Bella Vista", "Carbonara", "$18", "Egg and guanciale"),
		itemResult("rest-1", "Bella Vista", "Tiramisu", "", ""),
	}
	text := NewAssembler(nil).Build(context.Background(), results)

	if !strings.Contains(text, "- Carbonara ($18): Egg and guanciale\n") {
		t.Fatalf("full item line wrong:\n%s", text)
	}
	if !strings.Contains(text, "- Tiramisu\n") {
		t.Fatalf("sparse item line should omit price and description:\n%s", text)
	}
}

func TestBuildContextEmptyResults(t *testing.T) {
	if got := NewAssembler(nil).Build(context.Background(), nil); got != FallbackContext {
		t.Fatalf("empty results must return the fallback sentence, got %q", got)
	}
}

func TestBuildContextUnresolvableRestaurantKeepsMetadata(t *testing.T) {
	results := []vector.SearchResult{
		{
			Document: vector.Document{
				RestaurantID: "rest-9",
				ContentType:  vector.TypeRestaurantInfo,
				Metadata: vector.Metadata{
					RestaurantName: "Ghost Kitchen",
					Description:    "Delivery only",
					Slug:           "ghost-kitchen",
				},
			},
			Similarity: 0.8,
		},
	}
	text := NewAssembler(fakeProfiles{}).Build(context.Background(), results)

	if !strings.Contains(text, "**Ghost Kitchen**") {
		t.Fatalf("unresolvable restaurant was dropped:\n%s", text)
	}
	if !strings.Contains(text, "Description: Delivery only") {
		t.Fatalf("document metadata not rendered:\n%s", text)
	}
}

func TestBuildContextCategories(t *testing.T) {
	results := []vector.SearchResult{
		{
			Document: vector.Document{
				RestaurantID: "rest-1",
				ContentType:  vector.TypeCategory,
				Metadata:     vector.Metadata{RestaurantName: "Bella Vista", CategoryName: "Pasta"},
			},
		},
		{
			Document: vector.Document{
				RestaurantID: "rest-1",
				ContentType:  vector.TypeCategory,
				Metadata:     vector.Metadata{RestaurantName: "Bella Vista", CategoryName: "Dessert"},
			},
		},
		{
			Document: vector.Document{
				RestaurantID: "rest-1",
				ContentType:  vector.TypeCategory,
				Metadata:     vector.Metadata{RestaurantName: "Bella Vista", CategoryName: "Pasta"},
			},
		},
	}
	text := NewAssembler(nil).Build(context.Background(), results)

	if !strings.Contains(text, "Categories: Pasta, Dessert\n") {
		t.Fatalf("categories line wrong:\n%s", text)
	}
}

func TestResultsFromRestaurants(t *testing.T) {
	restaurants := []menu.Restaurant{*bellaVista()}
	results := ResultsFromRestaurants(restaurants, func(r *menu.Restaurant) []menu.Menu {
		return bellaVistaMenus()
	})

	if results[0].ContentType != vector.TypeRestaurantInfo {
		t.Fatalf("first pseudo-result should be the profile, got %s", results[0].ContentType)
	}
	items := 0
	for _, result := range results {
		if result.ContentType == vector.TypeMenuItem {
			items++
		}
	}
	if items != 4 {
		t.Fatalf("expected 4 item pseudo-results, got %d", items)
	}

	text := NewAssembler(nil).Build(context.Background(), results)
	if !strings.Contains(text, "**Bella Vista**") || !strings.Contains(text, "Menu Items:\n") {
		t.Fatalf("lexical adapter output not renderable:\n%s", text)
	}
}
