// File path: internal/llm/providers/chain.go
package providers

import (
	"context"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/common"
	"github.com/bhanuchaddha/online-menu-card/internal/common/telemetry"
)

// Chain tries an ordered list of providers, falling through to the next on
// failure. The first provider in the list defines the embedding space, so
// indexing and querying through the same chain stay comparable.
type Chain struct {
	providers []Provider
}

// NewChain builds a fallback chain from the given providers, skipping nils.
func NewChain(providers ...Provider) *Chain {
	chain := &Chain{}
	for _, p := range providers {
		if p != nil {
			chain.providers = append(chain.providers, p)
		}
	}
	return chain
}

// Empty reports whether no provider is configured.
func (c *Chain) Empty() bool {
	return c == nil || len(c.providers) == 0
}

func (c *Chain) Name() string {
	if c.Empty() {
		return "none"
	}
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, ">")
}

func (c *Chain) Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error) {
	logger := common.Logger()
	var attempted []string
	var errs []error
	for _, p := range c.providers {
		reply, err := p.Chat(ctx, messages, opts)
		if err == nil {
			return reply, nil
		}
		telemetry.RecordProviderFailure(p.Name())
		logger.Warn("llm: chat provider failed, falling through", "provider", p.Name(), "error", err)
		attempted = append(attempted, p.Name())
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", &UnavailableError{Op: "chat", Attempted: attempted, Errs: errs}
}

func (c *Chain) Embed(ctx context.Context, input []string) ([][]float32, error) {
	logger := common.Logger()
	var attempted []string
	var errs []error
	for _, p := range c.providers {
		vectors, err := p.Embed(ctx, input)
		if err == nil {
			return vectors, nil
		}
		telemetry.RecordProviderFailure(p.Name())
		logger.Warn("llm: embed provider failed, falling through", "provider", p.Name(), "error", err)
		attempted = append(attempted, p.Name())
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, &UnavailableError{Op: "embed", Attempted: attempted, Errs: errs}
}

var _ Provider = (*Chain)(nil)
