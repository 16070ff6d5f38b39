// File path: internal/agent/assistant.go
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
	"github.com/bhanuchaddha/online-menu-card/internal/llm"
	"github.com/bhanuchaddha/online-menu-card/internal/menu"
	"github.com/bhanuchaddha/online-menu-card/internal/search"
	"github.com/bhanuchaddha/online-menu-card/internal/vector"
)

const (
	chatMaxTokens   = 500
	chatTemperature = 0.7

	promptPreamble = "You are a helpful restaurant finder assistant. Based on the user's query, help them find restaurants and menu items that match their preferences.\n\n"

	promptInstructions = "Please provide a helpful response that:\n" +
		"1. Answers the user's question about restaurants or food\n" +
		"2. Recommends specific restaurants from the search results when relevant\n" +
		"3. Includes practical information like addresses, phone numbers, and menu links\n" +
		"4. Is conversational and friendly\n" +
		"5. If no good matches were found, suggest they try a different search or browse all restaurants\n" +
		"6. Formats the response using Markdown (e.g., use **bold** for names, lists for items, and links for menus)\n"
)

// Catalog is the relational access the assistant needs for its lexical
// fallback path.
type Catalog interface {
	TextSearch(ctx context.Context, query string) ([]menu.Restaurant, error)
	GetMenusForRestaurant(ctx context.Context, r *menu.Restaurant) ([]menu.Menu, error)
}

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply carries the generated answer plus retrieval counters for the client.
type Reply struct {
	Response           string `json:"response"`
	RestaurantsFound   int    `json:"restaurants_found"`
	SearchResultsCount int    `json:"search_results_count"`
}

// Assistant answers diner questions grounded in indexed restaurant data. Each
// request runs a two-node message graph: retrieve builds the grounding
// context, generate calls the chat model.
type Assistant struct {
	provider  llm.Provider
	searcher  *search.Searcher
	catalog   Catalog
	assembler *search.Assembler
}

func NewAssistant(provider llm.Provider, searcher *search.Searcher, catalog Catalog, assembler *search.Assembler) *Assistant {
	return &Assistant{provider: provider, searcher: searcher, catalog: catalog, assembler: assembler}
}

// Respond answers one user message given the prior conversation.
func (a *Assistant) Respond(ctx context.Context, message string, history []Turn) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, errors.New("message is required")
	}
	if a.provider == nil {
		return Reply{}, llm.ErrNoProvider
	}

	var reply Reply

	g := graph.NewMessageGraph()
	g.AddNode("retrieve", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		results, restaurants, err := a.retrieve(ctx, message)
		if err != nil {
			return nil, err
		}
		reply.SearchResultsCount = len(results)
		reply.RestaurantsFound = restaurants

		prompt := promptPreamble +
			a.assembler.Build(ctx, results) +
			fmt.Sprintf("User's question: %s\n\n", message) +
			promptInstructions
		system := llms.TextParts(llms.ChatMessageTypeSystem, prompt)
		return append([]llms.MessageContent{system}, state...), nil
	})
	g.AddNode("generate", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		began := time.Now()
		answer, err := a.provider.Chat(ctx, toProviderMessages(state), llm.ChatOptions{
			MaxTokens:   chatMaxTokens,
			Temperature: chatTemperature,
		})
		if err != nil {
			return nil, err
		}
		telemetry.RecordChat(time.Since(began))
		return append(state, llms.TextParts(llms.ChatMessageTypeAI, answer)), nil
	})
	g.AddEdge("retrieve", "generate")
	g.AddEdge("generate", graph.END)
	g.SetEntryPoint("retrieve")

	runnable, err := g.Compile()
	if err != nil {
		return Reply{}, fmt.Errorf("compile chat graph: %w", err)
	}

	state := historyMessages(history)
	state = append(state, llms.TextParts(llms.ChatMessageTypeHuman, message))
	final, err := runnable.Invoke(ctx, state)
	if err != nil {
		return Reply{}, fmt.Errorf("run chat graph: %w", err)
	}

	reply.Response = lastAIText(final)
	if reply.Response == "" {
		return Reply{}, errors.New("chat model returned no content")
	}
	return reply, nil
}

// retrieve runs semantic search when it is available and falls back to the
// lexical path otherwise. Retrieval failures on the semantic path degrade to
// lexical rather than failing the chat turn; a lexical failure is final.
func (a *Assistant) retrieve(ctx context.Context, message string) ([]vector.SearchResult, int, error) {
	if a.searcher != nil && a.searcher.Available() {
		results, err := a.searcher.Search(ctx, message, search.ChatThreshold, search.ChatLimit)
		if err == nil {
			return results, countRestaurants(results), nil
		}
		common.Logger().Warn("agent: semantic retrieval failed, using text search", "error", err)
	}

	if a.catalog == nil {
		return nil, 0, nil
	}
	restaurants, err := a.catalog.TextSearch(ctx, message)
	if err != nil {
		return nil, 0, fmt.Errorf("text search: %w", err)
	}
	results := search.ResultsFromRestaurants(restaurants, func(r *menu.Restaurant) []menu.Menu {
		menus, err := a.catalog.GetMenusForRestaurant(ctx, r)
		if err != nil {
			common.Logger().Warn("agent: menus unavailable for context",
				"restaurant_id", r.ID, "error", err)
			return nil
		}
		return menus
	})
	return results, len(restaurants), nil
}

func countRestaurants(results []vector.SearchResult) int {
	seen := make(map[string]struct{}, len(results))
	for _, result := range results {
		if result.RestaurantID != "" {
			seen[result.RestaurantID] = struct{}{}
		}
	}
	return len(seen)
}

func historyMessages(history []Turn) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		messages = append(messages, llms.TextParts(roleType(turn.Role), content))
	}
	return messages
}

func roleType(role string) llms.ChatMessageType {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant", "ai":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func toProviderMessages(state []llms.MessageContent) []llm.Message {
	messages := make([]llm.Message, 0, len(state))
	for _, mc := range state {
		text := messageText(mc)
		if text == "" {
			continue
		}
		messages = append(messages, llm.Message{Role: providerRole(mc.Role), Content: text})
	}
	return messages
}

func providerRole(role llms.ChatMessageType) string {
	switch role {
	case llms.ChatMessageTypeSystem:
		return "system"
	case llms.ChatMessageTypeAI:
		return "assistant"
	default:
		return "user"
	}
}

func messageText(mc llms.MessageContent) string {
	var parts []string
	for _, part := range mc.Parts {
		if text, ok := part.(llms.TextContent); ok && text.Text != "" {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func lastAIText(state []llms.MessageContent) string {
	for i := len(state) - 1; i >= 0; i-- {
		if state[i].Role == llms.ChatMessageTypeAI {
			return messageText(state[i])
		}
	}
	return ""
}
