// Package sentiment labels mention text as positive, negative or neutral.
//
// Two strategies implement Tagger:
//   - Keyword counts fixed positive and negative word lists (deterministic,
//     no I/O). This is the default.
//   - LLM asks the chat-completion API for a one-word label and falls back
//     to another Tagger (or neutral) on any failure.
//
// Callers depend only on Tagger; New picks the strategy from configuration.
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// Tagger maps free text about brand to exactly one sentiment label.
// Implementations must be safe for concurrent use and must never fail.
type Tagger interface {
	Tag(ctx context.Context, text, brand string) domain.Sentiment
}

// Strategy names accepted by New.
const (
	StrategyKeyword = "keyword"
	StrategyLLM     = "llm"
)

// New returns the Tagger for strategy. The LLM strategy requires client; it
// falls back to keyword tagging when the API cannot answer.
func New(strategy string, client Completer, model string) (Tagger, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyKeyword:
		return NewKeyword(), nil
	case StrategyLLM, "api":
		if client == nil {
			return NewKeyword(), nil
		}
		return &LLM{Client: client, Model: model, Fallback: NewKeyword()}, nil
	default:
		return nil, fmt.Errorf("sentiment: unknown strategy %q", strategy)
	}
}

// TaggerFunc adapts a function to Tagger.
type TaggerFunc func(ctx context.Context, text, brand string) domain.Sentiment

// Tag implements Tagger.
func (f TaggerFunc) Tag(ctx context.Context, text, brand string) domain.Sentiment {
	return f(ctx, text, brand)
}
