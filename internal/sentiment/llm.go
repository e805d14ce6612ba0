package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// Completer is the subset of *openai.Client used for tagging.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const (
	llmSystemPrompt = "Analyze the sentiment towards the brand mentioned. Respond with only: positive, negative, or neutral"
	llmMaxInput     = 200
	llmTemperature  = 0.3
	llmMaxTokens    = 10
	defaultModel    = openai.GPT3Dot5Turbo
)

// LLM asks a chat-completion model for a one-word label.
type LLM struct {
	Client Completer
	Model  string
	// Fallback handles API errors and unparseable answers; neutral when nil.
	Fallback Tagger
}

// Tag implements Tagger.
func (l *LLM) Tag(ctx context.Context, text, brand string) domain.Sentiment {
	if l.Client == nil {
		return l.fallback(ctx, text, brand)
	}
	model := l.Model
	if model == "" {
		model = defaultModel
	}

	resp, err := l.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Analyze sentiment towards %s in this text: %s", brand, truncateRunes(text, llmMaxInput))},
		},
		Temperature: llmTemperature,
		MaxTokens:   llmMaxTokens,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("brand", brand).Msg("sentiment api failed")
		return l.fallback(ctx, text, brand)
	}
	if len(resp.Choices) == 0 {
		return l.fallback(ctx, text, brand)
	}
	if s, ok := parseLabel(resp.Choices[0].Message.Content); ok {
		return s
	}
	return l.fallback(ctx, text, brand)
}

func (l *LLM) fallback(ctx context.Context, text, brand string) domain.Sentiment {
	if l.Fallback == nil {
		return domain.SentimentNeutral
	}
	return l.Fallback.Tag(ctx, text, brand)
}

// parseLabel accepts answers like "Positive." or "negative\n".
func parseLabel(answer string) (domain.Sentiment, bool) {
	a := strings.ToLower(strings.TrimSpace(answer))
	a = strings.Trim(a, ".!\"' ")
	if s, ok := domain.ParseSentiment(a); ok {
		return s, true
	}
	for _, s := range domain.Sentiments {
		if strings.HasPrefix(a, string(s)) {
			return s, true
		}
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
