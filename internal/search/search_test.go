// File path: internal/search/search_test.go
package search

import (
	"context"
	"errors"
	"testing"

	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

func seededStore(t *testing.T) *vector.Memory {
	t.Helper()
	store := vector.NewMemory()
	docs := []vector.Document{
		{ID: "a", RestaurantID: "rest-1", Content: "exact match", ContentType: vector.TypeMenuItem, Embedding: []float32{1, 0}},
		{ID: "b", RestaurantID: "rest-2", Content: "close match", ContentType: vector.TypeMenuItem, Embedding: []float32{0.8, 0.6}},
		{ID: "c", RestaurantID: "rest-3", Content: "weak match", ContentType: vector.TypeMenuItem, Embedding: []float32{0.6, 0.8}},
	}
	if err := store.Upsert(context.Background(), docs); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestSearchRankingAndThreshold(t *testing.T) {
	store := seededStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{"pasta": {1, 0}}}
	searcher := NewSearcher(store, embedder)

	results, err := searcher.Search(context.Background(), "pasta", 0.75, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("threshold 0.75 should keep 2 documents, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" {
		t.Fatalf("results out of order: %s, %s", results[0].ID, results[1].ID)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Fatalf("similarity not descending: %f < %f", results[0].Similarity, results[1].Similarity)
	}
}

func TestSearchRaisingThresholdNeverAddsResults(t *testing.T) {
	store := seededStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{"pasta": {1, 0}}}
	searcher := NewSearcher(store, embedder)

	loose, err := searcher.Search(context.Background(), "pasta", 0.5, 10)
	if err != nil {
		t.Fatalf("loose search: %v", err)
	}
	strict, err := searcher.Search(context.Background(), "pasta", 0.9, 10)
	if err != nil {
		t.Fatalf("strict search: %v", err)
	}
	if len(strict) > len(loose) {
		t.Fatalf("raising the threshold added results: %d > %d", len(strict), len(loose))
	}
	for _, result := range strict {
		if result.Similarity < 0.9 {
			t.Fatalf("result %s below threshold: %f", result.ID, result.Similarity)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	store := seededStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{"pasta": {1, 0}}}
	searcher := NewSearcher(store, embedder)

	results, err := searcher.Search(context.Background(), "pasta", 0.1, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("limit 2 returned %d results", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := NewSearcher(vector.NewMemory(), embedder)

	results, err := searcher.Search(context.Background(), "   ", 0, 0)
	if err != nil {
		t.Fatalf("empty query must not fail: %v", err)
	}
	if results != nil {
		t.Fatalf("empty query should return no results, got %d", len(results))
	}
	if embedder.calls != 0 {
		t.Fatalf("empty query must not reach the embedder")
	}
}

func TestSearchEmbedderFailureSurfaces(t *testing.T) {
	searcher := NewSearcher(seededStore(t), &fakeEmbedder{err: errors.New("provider down")})

	if _, err := searcher.Search(context.Background(), "pasta", 0, 0); err == nil {
		t.Fatalf("embedding failure must surface as an error, not empty results")
	}
}

func TestSearchNoMatchesIsNotAnError(t *testing.T) {
	store := seededStore(t)
	embedder := &fakeEmbedder{vectors: map[string][]float32{"sushi": {0, 1}}}
	searcher := NewSearcher(store, embedder)

	results, err := searcher.Search(context.Background(), "sushi", 0.9, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no qualifying documents, got %d", len(results))
	}
}
