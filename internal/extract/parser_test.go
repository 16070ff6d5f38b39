// File path: internal/extract/parser_test.go
package extract

import (
	"errors"
	"testing"

	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

const validPayload = `{"restaurant_name":"Bella Vista","categories":[{"name":"Pasta","items":[{"name":"Carbonara","price":"$18"}]}]}`

func TestParseExtractionBareJSON(t *testing.T) {
	ext, err := ParseExtraction(validPayload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ext.RestaurantName != "Bella Vista" || len(ext.Categories) != 1 {
		t.Fatalf("unexpected extraction: %+v", ext)
	}
}

func TestParseExtractionFencedJSON(t *testing.T) {
	reply := "Here is the menu:\n```json\n" + validPayload + "\n```\nLet me know if you need more."
	ext, err := ParseExtraction(reply)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if len(ext.Categories) != 1 || ext.Categories[0].Items[0].Name != "Carbonara" {
		t.Fatalf("unexpected extraction: %+v", ext)
	}
}

func TestParseExtractionEmbeddedJSON(t *testing.T) {
	reply := "Sure! The extracted menu is " + validPayload + " as requested."
	ext, err := ParseExtraction(reply)
	if err != nil {
		t.Fatalf("parse embedded: %v", err)
	}
	if ext.RestaurantName != "Bella Vista" {
		t.Fatalf("unexpected extraction: %+v", ext)
	}
}

func TestParseExtractionRejectsProse(t *testing.T) {
	for _, reply := range []string{"", "I could not read the menu, sorry.", "{broken json"} {
		if _, err := ParseExtraction(reply); !errors.Is(err, menu.ErrMalformedExtraction) {
			t.Fatalf("reply %q: expected ErrMalformedExtraction, got %v", reply, err)
		}
	}
}
