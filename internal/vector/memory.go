// File path: internal/vector/memory.go
package vector

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
)

// Memory is a brute-force cosine-similarity store for the lighter deployment
// and for tests. Documents keep insertion order so equal-similarity results
// rank deterministically.
type Memory struct {
	mu   sync.RWMutex
	docs []Document
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Available() bool { return m != nil }

func (m *Memory) DeleteRestaurant(_ context.Context, restaurantID string) error {
	if m == nil {
		return errors.New("memory store not configured")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.docs[:0]
	for _, doc := range m.docs {
		if doc.RestaurantID != restaurantID {
			kept = append(kept, doc)
		}
	}
	m.docs = kept
	return nil
}

func (m *Memory) Upsert(_ context.Context, docs []Document) error {
	if m == nil {
		return errors.New("memory store not configured")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return errors.New("document missing embedding")
		}
		m.docs = append(m.docs, doc)
	}
	return nil
}

func (m *Memory) Search(_ context.Context, vector []float32, threshold float32, limit int) ([]SearchResult, error) {
	if m == nil {
		return nil, errors.New("memory store not configured")
	}
	if limit <= 0 {
		limit = 10
	}
	start := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]SearchResult, 0, limit)
	for _, doc := range m.docs {
		sim := cosine(doc.Embedding, vector)
		if sim < threshold {
			continue
		}
		results = append(results, SearchResult{Document: doc, Similarity: sim})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	telemetry.RecordVectorSearch(time.Since(start))
	return results, nil
}

// Len reports the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ Store = (*Memory)(nil)
