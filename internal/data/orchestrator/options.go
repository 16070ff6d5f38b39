// File path: internal/data/orchestrator/options.go
package orchestrator

import (
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type Option func(*options)

type options struct {
	vector   vector.Store
	provider llm.Provider
}

// WithVectorStore injects a vector store implementation. Primarily used in
// tests.
func WithVectorStore(store vector.Store) Option {
	return func(o *options) {
		o.vector = store
	}
}

// WithProvider injects a chat/embedding provider implementation.
func WithProvider(provider llm.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}
