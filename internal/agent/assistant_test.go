// File path: internal/agent/assistant_test.go
package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/search"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

type scriptedProvider struct {
	answer   string
	chatErr  error
	embedErr error
	vectors  map[string][]float32

	lastMessages []llm.Message
	lastOpts     llm.ChatOptions
}

func (p *scriptedProvider) Chat(_ context.Context, messages []llm.Message, opts llm.ChatOptions) (string, error) {
	p.lastMessages = messages
	p.lastOpts = opts
	if p.chatErr != nil {
		return "", p.chatErr
	}
	return p.answer, nil
}

func (p *scriptedProvider) Embed(_ context.Context, input []string) ([][]float32, error) {
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	out := make([][]float32, len(input))
	for i, text := range input {
		if vec, ok := p.vectors[text]; ok {
			out[i] = vec
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

type textCatalog struct {
	restaurants []menu.Restaurant
	menus       map[string][]menu.Menu
	err         error
	queries     []string
}

func (c *textCatalog) TextSearch(_ context.Context, query string) ([]menu.Restaurant, error) {
	c.queries = append(c.queries, query)
	if c.err != nil {
		return nil, c.err
	}
	return c.restaurants, nil
}

func (c *textCatalog) GetMenusForRestaurant(_ context.Context, r *menu.Restaurant) ([]menu.Menu, error) {
	return c.menus[r.ID], nil
}

func semanticFixture(t *testing.T, provider *scriptedProvider) *search.Searcher {
	t.Helper()
	store := vector.NewMemory()
	err := store.Upsert(context.Background(), []vector.Document{{
		ID:           "rest-1:item:0:0",
		RestaurantID: "rest-1",
		Content:      "Carbonara - Egg and guanciale - Price: $18 at Bella Vista",
		ContentType:  vector.TypeMenuItem,
		Metadata: vector.Metadata{
			RestaurantName: "Bella Vista",
			ItemName:       "Carbonara",
			ItemPrice:      "$18",
		},
		Embedding: []float32{1, 0},
	}})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return search.NewSearcher(store, provider)
}

func TestRespondSemanticPath(t *testing.T) {
	provider := &scriptedProvider{answer: "Try the Carbonara at Bella Vista."}
	catalog := &textCatalog{}
	assistant := NewAssistant(provider, semanticFixture(t, provider), catalog, search.NewAssembler(nil))

	reply, err := assistant.Respond(context.Background(), "where can I get pasta?", nil)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if reply.Response != "Try the Carbonara at Bella Vista." {
		t.Fatalf("unexpected response %q", reply.Response)
	}
	if reply.SearchResultsCount != 1 || reply.RestaurantsFound != 1 {
		t.Fatalf("counters = %d results / %d restaurants, want 1/1", reply.SearchResultsCount, reply.RestaurantsFound)
	}
	if len(catalog.queries) != 0 {
		t.Fatalf("semantic path must not hit text search")
	}

	if len(provider.lastMessages) == 0 || provider.lastMessages[0].Role != "system" {
		t.Fatalf("first model message must be the system prompt")
	}
	prompt := provider.lastMessages[0].Content
	if !strings.Contains(prompt, "**Bella Vista**") {
		t.Fatalf("grounding context missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "User's question: where can I get pasta?") {
		t.Fatalf("user question missing from prompt:\n%s", prompt)
	}
	if provider.lastOpts.MaxTokens != chatMaxTokens || provider.lastOpts.Temperature != chatTemperature {
		t.Fatalf("chat options = %+v", provider.lastOpts)
	}
}

func TestRespondLexicalFallbackWhenSemanticUnavailable(t *testing.T) {
	provider := &scriptedProvider{answer: "Noodle Bar has ramen."}
	catalog := &textCatalog{
		restaurants: []menu.Restaurant{{ID: "rest-2", Name: "Noodle Bar", Slug: "noodle-bar"}},
	}
	assistant := NewAssistant(provider, nil, catalog, search.NewAssembler(nil))

	reply, err := assistant.Respond(context.Background(), "ramen", nil)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(catalog.queries) != 1 || catalog.queries[0] != "ramen" {
		t.Fatalf("text search queries = %v", catalog.queries)
	}
	if reply.RestaurantsFound != 1 {
		t.Fatalf("restaurants found = %d, want 1", reply.RestaurantsFound)
	}
	if !strings.Contains(provider.lastMessages[0].Content, "**Noodle Bar**") {
		t.Fatalf("lexical context missing:\n%s", provider.lastMessages[0].Content)
	}
}

func TestRespondFallsBackWhenEmbeddingFails(t *testing.T) {
	provider := &scriptedProvider{answer: "ok", embedErr: errors.New("provider down")}
	catalog := &textCatalog{
		restaurants: []menu.Restaurant{{ID: "rest-2", Name: "Noodle Bar"}},
	}
	store := vector.NewMemory()
	assistant := NewAssistant(provider, search.NewSearcher(store, provider), catalog, search.NewAssembler(nil))

	reply, err := assistant.Respond(context.Background(), "ramen", nil)
	if err != nil {
		t.Fatalf("respond should degrade to text search: %v", err)
	}
	if reply.RestaurantsFound != 1 {
		t.Fatalf("fallback did not run, restaurants found = %d", reply.RestaurantsFound)
	}
}

func TestRespondEmptyRetrievalUsesFallbackSentence(t *testing.T) {
	provider := &scriptedProvider{answer: "Try browsing all restaurants."}
	assistant := NewAssistant(provider, nil, &textCatalog{}, search.NewAssembler(nil))

	if _, err := assistant.Respond(context.Background(), "anything", nil); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !strings.Contains(provider.lastMessages[0].Content, search.FallbackContext) {
		t.Fatalf("fallback sentence missing from prompt:\n%s", provider.lastMessages[0].Content)
	}
}

func TestRespondValidation(t *testing.T) {
	assistant := NewAssistant(&scriptedProvider{}, nil, &textCatalog{}, search.NewAssembler(nil))
	if _, err := assistant.Respond(context.Background(), "   ", nil); err == nil {
		t.Fatalf("blank message must be rejected")
	}

	missing := NewAssistant(nil, nil, &textCatalog{}, search.NewAssembler(nil))
	if _, err := missing.Respond(context.Background(), "hi", nil); !errors.Is(err, llm.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestRespondHistoryPassedToModel(t *testing.T) {
	provider := &scriptedProvider{answer: "sure"}
	assistant := NewAssistant(provider, nil, &textCatalog{}, search.NewAssembler(nil))

	history := []Turn{
		{Role: "user", Content: "any pizza places?"},
		{Role: "assistant", Content: "Bella Vista has pizza."},
	}
	if _, err := assistant.Respond(context.Background(), "what about pasta?", history); err != nil {
		t.Fatalf("respond: %v", err)
	}
	// system prompt + 2 history turns + current question
	if len(provider.lastMessages) != 4 {
		t.Fatalf("model saw %d messages, want 4", len(provider.lastMessages))
	}
	if provider.lastMessages[2].Role != "assistant" {
		t.Fatalf("history roles not preserved: %+v", provider.lastMessages)
	}
}
