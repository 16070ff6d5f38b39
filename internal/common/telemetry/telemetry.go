// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"strings"
	"sync"
	"time"

	"expvar"
)

var (
	initOnce sync.Once

	vectorSearchTotal     *expvar.Int
	vectorSearchLatencyMS *expvar.Int
	textSearchTotal       *expvar.Int

	embeddingTotal     *expvar.Int
	embeddingLatencyMS *expvar.Int

	chatTotal     *expvar.Int
	chatLatencyMS *expvar.Int

	reindexTotal  *expvar.Int
	reindexFailed *expvar.Int
	indexedDocs   *expvar.Int

	providerFailures *expvar.Map
)

func ensureInit() {
	initOnce.Do(func() {
		vectorSearchTotal = expvar.NewInt("menucard_vector_search_total")
		vectorSearchLatencyMS = expvar.NewInt("menucard_vector_search_latency_ms")
		textSearchTotal = expvar.NewInt("menucard_text_search_total")

		embeddingTotal = expvar.NewInt("menucard_embedding_total")
		embeddingLatencyMS = expvar.NewInt("menucard_embedding_latency_ms")

		chatTotal = expvar.NewInt("menucard_chat_total")
		chatLatencyMS = expvar.NewInt("menucard_chat_latency_ms")

		reindexTotal = expvar.NewInt("menucard_reindex_total")
		reindexFailed = expvar.NewInt("menucard_reindex_failed")
		indexedDocs = expvar.NewInt("menucard_indexed_docs_total")

		providerFailures = expvar.NewMap("menucard_provider_failures")
	})
}

// RecordVectorSearch counts one nearest-neighbor query.
func RecordVectorSearch(duration time.Duration) {
	ensureInit()
	vectorSearchTotal.Add(1)
	if duration > 0 {
		vectorSearchLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordTextSearch counts one lexical search query.
func RecordTextSearch() {
	ensureInit()
	textSearchTotal.Add(1)
}

// RecordEmbedding counts one embedding-provider call.
func RecordEmbedding(duration time.Duration) {
	ensureInit()
	embeddingTotal.Add(1)
	if duration > 0 {
		embeddingLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordChat counts one chat-completion call.
func RecordChat(duration time.Duration) {
	ensureInit()
	chatTotal.Add(1)
	if duration > 0 {
		chatLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordReindex counts one per-restaurant reindex attempt and the documents it
// produced.
func RecordReindex(docs int, failed bool) {
	ensureInit()
	reindexTotal.Add(1)
	if failed {
		reindexFailed.Add(1)
		return
	}
	if docs > 0 {
		indexedDocs.Add(int64(docs))
	}
}

// RecordProviderFailure counts a failed call against a named provider.
func RecordProviderFailure(name string) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(name))
	if key == "" {
		key = "unknown"
	}
	providerFailures.Add(key, 1)
}
