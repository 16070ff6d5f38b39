// File path: internal/llm/providers/openrouter.go
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider speaks the OpenAI-compatible REST API exposed by
// OpenRouter. It is the fallback leg of the default chain and the vendor used
// for vision extraction in the lighter deployment.
type OpenRouterProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	chatModel  string
	embedModel string
	referer    string
	title      string
}

func NewOpenRouterProvider(apiKey string, timeout time.Duration) *OpenRouterProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	chatModel := os.Getenv("OPENROUTER_CHAT_MODEL")
	if chatModel == "" {
		chatModel = "google/gemini-2.0-flash-001"
	}
	embedModel := os.Getenv("OPENROUTER_EMBED_MODEL")
	if embedModel == "" {
		embedModel = "text-embedding-ada-002"
	}
	baseURL := strings.TrimSpace(os.Getenv("OPENROUTER_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	logger := common.Logger()
	logger.Info("llm: OpenRouter provider configured", "chat_model", chatModel, "embed_model", embedModel)
	return &OpenRouterProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		chatModel:  chatModel,
		embedModel: embedModel,
		referer:    strings.TrimSpace(os.Getenv("MENUCARD_APP_URL")),
		title:      strings.TrimSpace(os.Getenv("MENUCARD_APP_NAME")),
	}
}

type openRouterContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL    string `json:"url"`
		Detail string `json:"detail,omitempty"`
	} `json:"image_url,omitempty"`
}

type openRouterMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

func (o *OpenRouterProvider) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	payload := map[string]interface{}{
		"model":    o.chatModel,
		"messages": buildOpenRouterMessages(messages),
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		payload["temperature"] = opts.Temperature
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	start := time.Now()
	err := o.doRequest(ctx, "/chat/completions", payload, &resp)
	telemetry.RecordChat(time.Since(start))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildOpenRouterMessages(messages []Message) []openRouterMessage {
	out := make([]openRouterMessage, 0, len(messages))
	for _, msg := range messages {
		if len(msg.ImageURLs) == 0 {
			out = append(out, openRouterMessage{Role: msg.Role, Content: msg.Content})
			continue
		}
		parts := []openRouterContentPart{{Type: "text", Text: msg.Content}}
		for _, url := range msg.ImageURLs {
			part := openRouterContentPart{Type: "image_url"}
			part.ImageURL = &struct {
				URL    string `json:"url"`
				Detail string `json:"detail,omitempty"`
			}{URL: url, Detail: "high"}
			parts = append(parts, part)
		}
		out = append(out, openRouterMessage{Role: msg.Role, Content: parts})
	}
	return out
}

func (o *OpenRouterProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	if len(input) == 0 {
		return nil, nil
	}
	payload := map[string]interface{}{
		"model": o.embedModel,
		"input": input,
	}
	var resp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	start := time.Now()
	err := o.doRequest(ctx, "/embeddings", payload, &resp)
	telemetry.RecordEmbedding(time.Since(start))
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, 0, len(resp.Data))
	for _, data := range resp.Data {
		vectors = append(vectors, data.Embedding)
	}
	if len(vectors) != len(input) {
		return nil, fmt.Errorf("openrouter: expected %d embeddings, got %d", len(input), len(vectors))
	}
	return vectors, nil
}

func (o *OpenRouterProvider) Name() string {
	return "openrouter"
}

func (o *OpenRouterProvider) doRequest(ctx context.Context, path string, body, out interface{}) error {
	if o == nil || o.apiKey == "" {
		return fmt.Errorf("openrouter provider not configured")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.referer != "" {
		req.Header.Set("HTTP-Referer", o.referer)
	}
	if o.title != "" {
		req.Header.Set("X-Title", o.title)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openrouter %s failed: %s: %s", path, resp.Status, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ Provider = (*OpenRouterProvider)(nil)
