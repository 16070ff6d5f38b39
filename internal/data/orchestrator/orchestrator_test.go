// File path: internal/data/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type stubProvider struct{}

func (stubProvider) Chat(context.Context, []llm.Message, llm.ChatOptions) (string, error) {
	return "ok", nil
}

func (stubProvider) Embed(_ context.Context, input []string) ([][]float32, error) {
	out := make([][]float32, len(input))
	for i := range input {
		out[i] = []float32{1}
	}
	return out, nil
}

func (stubProvider) Name() string { return "stub" }

func TestNewWiresServices(t *testing.T) {
	cfg := Config{SQLitePath: filepath.Join(t.TempDir(), "menucard.db")}
	orch, err := New(context.Background(), cfg,
		WithVectorStore(vector.NewMemory()),
		WithProvider(stubProvider{}))
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	defer orch.Close()

	if orch.Catalog() == nil || orch.Vector() == nil || orch.Provider() == nil {
		t.Fatalf("core stores not wired")
	}
	if orch.Indexer() == nil || orch.Searcher() == nil || orch.Assistant() == nil {
		t.Fatalf("search services not wired")
	}
	if orch.Extractor() == nil {
		t.Fatalf("extractor should be wired when a provider exists")
	}
	if orch.Geocoder() == nil {
		t.Fatalf("geocoder not wired")
	}
}

func TestNewWithoutProvider(t *testing.T) {
	// No OPENAI_API_KEY / OPENROUTER_API_KEY in the test environment.
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg := Config{SQLitePath: filepath.Join(t.TempDir(), "menucard.db")}
	orch, err := New(context.Background(), cfg, WithVectorStore(vector.NewMemory()))
	if err != nil {
		t.Fatalf("missing provider must not be fatal: %v", err)
	}
	defer orch.Close()

	if orch.Provider() != nil {
		t.Fatalf("expected nil provider")
	}
	if orch.Extractor() != nil {
		t.Fatalf("extractor should be disabled without a provider")
	}
	if orch.Searcher().Available() {
		t.Fatalf("semantic search should report unavailable")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := applyDefaults(Config{})
	if cfg.SQLitePath == "" || cfg.IndexTimeout <= 0 || cfg.IndexConcurrency <= 0 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
