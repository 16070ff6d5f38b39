// File path: internal/search/indexer.go
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

const (
	defaultIndexTimeout     = 2 * time.Minute
	defaultIndexConcurrency = 4
	embedBatchSize          = 64
)

// Catalog is the slice of the relational store the indexer reads from.
type Catalog interface {
	GetRestaurant(ctx context.Context, id string) (*menu.Restaurant, error)
	GetMenusForRestaurant(ctx context.Context, r *menu.Restaurant) ([]menu.Menu, error)
	ListRestaurants(ctx context.Context) ([]menu.Restaurant, error)
}

// Indexer rebuilds a restaurant's document set in the vector store from the
// relational catalog. Rebuilds are delete-then-insert, so running one twice
// leaves the same documents behind, and concurrent rebuilds of the same
// restaurant are serialized on a per-restaurant lock.
type Indexer struct {
	catalog  Catalog
	vectors  vector.Store
	embedder llm.Provider

	timeout     time.Duration
	concurrency int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewIndexer(catalog Catalog, vectors vector.Store, embedder llm.Provider) *Indexer {
	return &Indexer{
		catalog:     catalog,
		vectors:     vectors,
		embedder:    embedder,
		timeout:     defaultIndexTimeout,
		concurrency: defaultIndexConcurrency,
		locks:       make(map[string]*sync.Mutex),
	}
}

// SetTimeout overrides the per-restaurant rebuild deadline.
func (ix *Indexer) SetTimeout(d time.Duration) {
	if d > 0 {
		ix.timeout = d
	}
}

// SetConcurrency bounds how many restaurants ReindexAll rebuilds in parallel.
func (ix *Indexer) SetConcurrency(n int) {
	if n > 0 {
		ix.concurrency = n
	}
}

func (ix *Indexer) restaurantLock(id string) *sync.Mutex {
	ix.locksMu.Lock()
	defer ix.locksMu.Unlock()
	lock, ok := ix.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		ix.locks[id] = lock
	}
	return lock
}

// ReindexRestaurant replaces every indexed document for one restaurant with a
// fresh set built from the catalog. Returns the number of documents written.
func (ix *Indexer) ReindexRestaurant(ctx context.Context, restaurantID string) (int, error) {
	if ix.vectors == nil || !ix.vectors.Available() {
		return 0, errors.New("vector store unavailable")
	}
	if ix.embedder == nil {
		return 0, llm.ErrNoProvider
	}

	lock := ix.restaurantLock(restaurantID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	restaurant, err := ix.catalog.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, fmt.Errorf("load restaurant %s: %w", restaurantID, err)
	}
	menus, err := ix.catalog.GetMenusForRestaurant(ctx, restaurant)
	if err != nil {
		return 0, fmt.Errorf("load menus for %s: %w", restaurantID, err)
	}

	docs := BuildDocuments(restaurant, menus)
	if err := ix.embedDocuments(ctx, docs); err != nil {
		telemetry.RecordReindex(0, true)
		return 0, err
	}

	if err := ix.vectors.DeleteRestaurant(ctx, restaurantID); err != nil {
		telemetry.RecordReindex(0, true)
		return 0, fmt.Errorf("clear stale documents for %s: %w", restaurantID, err)
	}
	if err := ix.vectors.Upsert(ctx, docs); err != nil {
		telemetry.RecordReindex(0, true)
		return 0, fmt.Errorf("store documents for %s: %w", restaurantID, err)
	}

	telemetry.RecordReindex(len(docs), false)
	common.Logger().Info("search: restaurant reindexed",
		"restaurant_id", restaurantID, "documents", len(docs))
	return len(docs), nil
}

func (ix *Indexer) embedDocuments(ctx context.Context, docs []vector.Document) error {
	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]
		input := make([]string, len(batch))
		for i, doc := range batch {
			input[i] = doc.Content
		}
		began := time.Now()
		vectors, err := ix.embedder.Embed(ctx, input)
		if err != nil {
			return fmt.Errorf("embed documents: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embed documents: got %d vectors for %d inputs", len(vectors), len(batch))
		}
		telemetry.RecordEmbedding(time.Since(began))
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}
	return nil
}

// Report summarizes a bulk rebuild.
type Report struct {
	Restaurants int      `json:"restaurants"`
	Documents   int      `json:"documents"`
	Failed      []string `json:"failed,omitempty"`
}

// ReindexAll rebuilds every restaurant in the catalog with bounded
// parallelism. A failing restaurant is recorded and skipped; the remaining
// rebuilds still run.
func (ix *Indexer) ReindexAll(ctx context.Context) (Report, error) {
	restaurants, err := ix.catalog.ListRestaurants(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list restaurants: %w", err)
	}

	var (
		mu     sync.Mutex
		report = Report{Restaurants: len(restaurants)}
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(ix.concurrency)
	for _, restaurant := range restaurants {
		restaurant := restaurant
		group.Go(func() error {
			count, err := ix.ReindexRestaurant(groupCtx, restaurant.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, restaurant.ID)
				common.Logger().Warn("search: reindex failed",
					"restaurant_id", restaurant.ID, "error", err)
				return nil
			}
			report.Documents += count
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return report, err
	}
	common.Logger().Info("search: bulk reindex finished",
		"restaurants", report.Restaurants,
		"documents", report.Documents,
		"failed", len(report.Failed))
	return report, nil
}

var _ Catalog = (*sqlite.Store)(nil)
