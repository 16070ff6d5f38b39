// File path: internal/vector/memory_test.go
package vector

import (
	"context"
	"testing"
)

func seedMemory(t *testing.T) *Memory {
	t.Helper()
	store := NewMemory()
	err := store.Upsert(context.Background(), []Document{
		{ID: "a", RestaurantID: "rest-1", ContentType: TypeRestaurantInfo, Embedding: []float32{1, 0}},
		{ID: "b", RestaurantID: "rest-1", ContentType: TypeMenuItem, Embedding: []float32{0.8, 0.6}},
		{ID: "c", RestaurantID: "rest-2", ContentType: TypeMenuItem, Embedding: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestMemoryUpsertRequiresEmbedding(t *testing.T) {
	store := NewMemory()
	err := store.Upsert(context.Background(), []Document{{ID: "a"}})
	if err == nil {
		t.Fatalf("documents without embeddings must be rejected")
	}
}

func TestMemoryDeleteRestaurant(t *testing.T) {
	store := seedMemory(t)
	if err := store.DeleteRestaurant(context.Background(), "rest-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected only rest-2 documents to survive, have %d", store.Len())
	}
	// Deleting an unknown restaurant is a no-op, not an error.
	if err := store.DeleteRestaurant(context.Background(), "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemorySearchOrdering(t *testing.T) {
	store := seedMemory(t)
	results, err := store.Search(context.Background(), []float32{1, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Fatalf("ordering wrong: %s, %s", results[0].ID, results[1].ID)
	}
}

func TestMemorySearchTieBreakIsInsertionOrder(t *testing.T) {
	store := NewMemory()
	err := store.Upsert(context.Background(), []Document{
		{ID: "first", RestaurantID: "r", Embedding: []float32{1, 0}},
		{ID: "second", RestaurantID: "r", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	results, err := store.Search(context.Background(), []float32{1, 0}, 0.5, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results[0].ID != "first" || results[1].ID != "second" {
		t.Fatalf("equal scores must keep insertion order: %s, %s", results[0].ID, results[1].ID)
	}
}

func TestMemorySearchLimitAndThreshold(t *testing.T) {
	store := seedMemory(t)

	results, err := store.Search(context.Background(), []float32{1, 0}, 0.95, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Fatalf("high threshold should keep only the exact match: %+v", results)
	}

	results, err = store.Search(context.Background(), []float32{1, 0}, 0, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("limit 1 returned %d results", len(results))
	}
}

func TestDimension(t *testing.T) {
	if got := Dimension([][]float32{nil, {1, 2, 3}}); got != 3 {
		t.Fatalf("dimension = %d", got)
	}
	if got := Dimension(nil); got != 0 {
		t.Fatalf("empty dimension = %d", got)
	}
}
