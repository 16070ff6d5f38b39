// File path: internal/search/search.go
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

// Retrieval defaults. The chat path narrows these to favor precision.
const (
	DefaultThreshold float32 = 0.78
	DefaultLimit             = 10
	ChatThreshold    float32 = 0.75
	ChatLimit                = 8

	defaultQueryTimeout = 15 * time.Second
)

// Searcher answers natural-language queries against the vector store. A
// failure anywhere in the pipeline is returned as an error; an empty result
// set only ever means nothing scored above the threshold.
type Searcher struct {
	vectors  vector.Store
	embedder llm.Provider
	timeout  time.Duration
}

func NewSearcher(vectors vector.Store, embedder llm.Provider) *Searcher {
	return &Searcher{vectors: vectors, embedder: embedder, timeout: defaultQueryTimeout}
}

// SetTimeout overrides the per-query deadline.
func (s *Searcher) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Available reports whether semantic search can serve queries right now.
func (s *Searcher) Available() bool {
	return s != nil && s.embedder != nil && s.vectors != nil && s.vectors.Available()
}

// Search embeds the query and returns documents scoring at or above
// threshold, ordered by similarity descending. Non-positive threshold and
// limit fall back to the package defaults.
func (s *Searcher) Search(ctx context.Context, query string, threshold float32, limit int) ([]vector.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if s.embedder == nil {
		return nil, llm.ErrNoProvider
	}
	if s.vectors == nil || !s.vectors.Available() {
		return nil, errors.New("vector store unavailable")
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	began := time.Now()
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("embed query: empty vector")
	}
	telemetry.RecordEmbedding(time.Since(began))

	results, err := s.vectors.Search(ctx, vectors[0], threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
