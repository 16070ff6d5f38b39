// File path: internal/data/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/bhanuchaddha/online-menu-card/internal/agent"
	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/extract"
	"github.com/bhanuchaddha/online-menu-card/internal/geo"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/search"
	"github.com/bhanuchaddha/online-menu-card/internal/sqlite"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type closer interface {
	Close() error
}

// Orchestrator wires together the stores and services that back the menucard
// server and exposes convenience accessors for the API layer.
type Orchestrator struct {
	cfg Config

	catalog  *sqlite.Store
	vector   vector.Store
	provider llm.Provider

	indexer   *search.Indexer
	searcher  *search.Searcher
	assistant *agent.Assistant
	extractor *extract.Service
	geocoder  *geo.Client

	closers []closer
}

// New constructs an orchestrator from the provided configuration and optional
// overrides. A missing LLM credential is not fatal: the server still serves
// profiles, public menus and lexical search, with semantic features reporting
// unavailable.
func New(ctx context.Context, cfg Config, opts ...Option) (*Orchestrator, error) {
	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	settings := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	sqliteCfg, err := sqlite.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load sqlite config: %w", err)
	}
	sqliteCfg.Path = cfg.SQLitePath
	catalog, err := sqlite.OpenWithConfig(sqliteCfg)
	if err != nil {
		return nil, fmt.Errorf("init sqlite store: %w", err)
	}

	var vec vector.Store
	switch {
	case settings.vector != nil:
		vec = settings.vector
	case vector.Configured():
		client, err := vector.NewChromaFromEnv(ctx)
		if err != nil {
			catalog.Close()
			return nil, fmt.Errorf("init vector client: %w", err)
		}
		vec = client
	default:
		vec = vector.NewMemory()
	}

	provider := settings.provider
	if provider == nil {
		provider, err = llm.NewProvider()
		if err != nil {
			if !errors.Is(err, llm.ErrNoProvider) {
				catalog.Close()
				return nil, fmt.Errorf("init llm provider: %w", err)
			}
			common.Logger().Warn("orchestrator: no llm provider configured, semantic features disabled")
			provider = nil
		}
	}

	indexer := search.NewIndexer(catalog, vec, provider)
	indexer.SetTimeout(cfg.IndexTimeout)
	indexer.SetConcurrency(cfg.IndexConcurrency)

	searcher := search.NewSearcher(vec, provider)
	assembler := search.NewAssembler(catalog)

	orch := &Orchestrator{
		cfg:       cfg,
		catalog:   catalog,
		vector:    vec,
		provider:  provider,
		indexer:   indexer,
		searcher:  searcher,
		assistant: agent.NewAssistant(provider, searcher, catalog, assembler),
		geocoder:  geo.NewClient(),
	}
	if provider != nil {
		orch.extractor = extract.NewService(provider, extract.PassthroughHost())
	}
	orch.closers = append(orch.closers, catalog)
	if vecCloser, ok := vec.(closer); ok {
		orch.closers = append(orch.closers, vecCloser)
	}
	return orch, nil
}

// Catalog exposes the relational store.
func (o *Orchestrator) Catalog() *sqlite.Store {
	if o == nil {
		return nil
	}
	return o.catalog
}

// Vector exposes the vector store.
func (o *Orchestrator) Vector() vector.Store {
	if o == nil {
		return nil
	}
	return o.vector
}

// Provider exposes the chat/embedding provider; nil when unconfigured.
func (o *Orchestrator) Provider() llm.Provider {
	if o == nil {
		return nil
	}
	return o.provider
}

// Indexer exposes the re-index orchestrator.
func (o *Orchestrator) Indexer() *search.Indexer {
	if o == nil {
		return nil
	}
	return o.indexer
}

// Searcher exposes semantic search.
func (o *Orchestrator) Searcher() *search.Searcher {
	if o == nil {
		return nil
	}
	return o.searcher
}

// Assistant exposes the chat flow.
func (o *Orchestrator) Assistant() *agent.Assistant {
	if o == nil {
		return nil
	}
	return o.assistant
}

// Extractor exposes the menu extraction flow; nil when no provider is
// configured.
func (o *Orchestrator) Extractor() *extract.Service {
	if o == nil {
		return nil
	}
	return o.extractor
}

// Geocoder exposes the Nominatim client.
func (o *Orchestrator) Geocoder() *geo.Client {
	if o == nil {
		return nil
	}
	return o.geocoder
}

// Close releases any resources associated with the orchestrator.
func (o *Orchestrator) Close() error {
	if o == nil {
		return nil
	}
	var err error
	for i := len(o.closers) - 1; i >= 0; i-- {
		closer := o.closers[i]
		if closer == nil {
			continue
		}
		if cerr := closer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}
