// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// Message is one turn of a chat exchange. ImageURLs carries optional image
// attachments for vision-capable models; providers without vision support
// ignore them.
type Message struct {
	Role      string   `json:"role"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

// ChatOptions bound a single chat completion.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// Provider is the capability surface shared by every upstream model vendor.
// Embed vectors from different providers live in different spaces and must
// never be mixed within one similarity search.
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Name() string
}

// UnavailableError reports that every provider in a fallback chain failed for
// one operation. Attempted lists the providers in the order they were tried.
type UnavailableError struct {
	Op        string
	Attempted []string
	Errs      []error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable after trying providers [%s]", e.Op, strings.Join(e.Attempted, ", "))
}

func (e *UnavailableError) Unwrap() []error {
	return e.Errs
}
