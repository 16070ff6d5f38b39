// File path: internal/llm/llm.go
package llm

import (
	"errors"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/llm/providers"
)

type Message = providers.Message

type ChatOptions = providers.ChatOptions

type Provider = providers.Provider

// ErrNoProvider is a configuration error: neither OPENAI_API_KEY nor
// OPENROUTER_API_KEY is set. It is surfaced to the operator and never retried.
var ErrNoProvider = errors.New("no llm provider configured: set OPENAI_API_KEY or OPENROUTER_API_KEY")

// NewProvider builds the default fallback chain from the environment:
// OpenAI first, OpenRouter second. Both indexing and querying must go through
// the same chain so embedding spaces stay consistent.
func NewProvider() (Provider, error) {
	logger := common.Logger()
	var chainLinks []providers.Provider

	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
			timeout, err := time.ParseDuration(timeoutStr)
			if err != nil {
				logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
			} else {
				opts = append(opts, option.WithRequestTimeout(timeout))
			}
		}
		if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
			logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
			opts = append(opts, option.WithBaseURL(endpoint))
		}
		client := openai.NewClient(opts...)
		chainLinks = append(chainLinks, providers.NewOpenAIProvider(&client))
	}

	if apiKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")); apiKey != "" {
		timeout := time.Duration(0)
		if timeoutStr := strings.TrimSpace(os.Getenv("OPENROUTER_HTTP_TIMEOUT")); timeoutStr != "" {
			parsed, err := time.ParseDuration(timeoutStr)
			if err != nil {
				logger.Warn("llm: invalid OPENROUTER_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
			} else {
				timeout = parsed
			}
		}
		chainLinks = append(chainLinks, providers.NewOpenRouterProvider(apiKey, timeout))
	}

	chain := providers.NewChain(chainLinks...)
	if chain.Empty() {
		return nil, ErrNoProvider
	}
	logger.Info("llm: provider chain ready", "chain", chain.Name())
	return chain, nil
}

// NormalizeMessages lower-cases roles and rejects empty exchanges.
func NormalizeMessages(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}
	for i := range messages {
		messages[i].Role = strings.ToLower(messages[i].Role)
	}
	return messages, nil
}
