// File path: internal/menu/extraction_test.go
package menu

import (
	"errors"
	"testing"
)

func TestDecodeExtraction(t *testing.T) {
	data := []byte(`{
		"restaurant_name": " Bella Vista ",
		"categories": [
			{"name": " Pasta ", "items": [
				{"name": " Carbonara ", "description": "Egg and guanciale", "price": "$18"},
				{"name": "", "description": "", "price": ""}
			]},
			{"name": "", "items": []}
		]
	}`)
	ext, err := DecodeExtraction(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ext.RestaurantName != "Bella Vista" {
		t.Fatalf("restaurant name = %q", ext.RestaurantName)
	}
	if len(ext.Categories) != 1 {
		t.Fatalf("empty category should be dropped, got %d categories", len(ext.Categories))
	}
	if len(ext.Categories[0].Items) != 1 {
		t.Fatalf("blank item should be dropped, got %d items", len(ext.Categories[0].Items))
	}
	if ext.Categories[0].Items[0].Name != "Carbonara" {
		t.Fatalf("item not trimmed: %q", ext.Categories[0].Items[0].Name)
	}
}

func TestDecodeExtractionEmptyPayload(t *testing.T) {
	ext, err := DecodeExtraction(nil)
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if ext.Categories == nil {
		t.Fatalf("categories must never be nil")
	}
}

func TestDecodeExtractionMalformed(t *testing.T) {
	if _, err := DecodeExtraction([]byte(`{"categories": "not-a-list"}`)); !errors.Is(err, ErrMalformedExtraction) {
		t.Fatalf("expected ErrMalformedExtraction, got %v", err)
	}
	if _, err := DecodeExtraction([]byte(`not json at all`)); !errors.Is(err, ErrMalformedExtraction) {
		t.Fatalf("expected ErrMalformedExtraction, got %v", err)
	}
}

func TestItemCount(t *testing.T) {
	ext := Extraction{Categories: []Category{
		{Name: "Pasta", Items: []Item{{Name: "A"}, {Name: "B"}}},
		{Name: "Dessert", Items: []Item{{Name: "C"}}},
	}}
	if got := ext.ItemCount(); got != 3 {
		t.Fatalf("item count = %d", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Bella Vista":        "bella-vista",
		"  Café  del  Mar  ": "caf-del-mar",
		"Joe's BBQ & Grill":  "joe-s-bbq-grill",
		"---":                "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
