// Package generation fabricates brand mentions with the OpenAI chat
// completion API.
//
// Generate never returns an error. Without credentials it returns one
// fallback mention; with credentials it consults a quota.Guard before every
// API call and serves the last cached batch when a call is not allowed or
// fails.
package generation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/metrics"
	"github.com/tbourn/brand-mentions/internal/quota"
	"github.com/tbourn/brand-mentions/internal/search"
	"github.com/tbourn/brand-mentions/internal/sentiment"
)

// Completer is the subset of *openai.Client used for generation.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Mention is one generated snippet, not yet persisted.
type Mention struct {
	Brand            string           `json:"brand_name"`
	Platform         string           `json:"platform"`
	Text             string           `json:"mention_text"`
	Sentiment        domain.Sentiment `json:"sentiment"`
	Author           string           `json:"author"`
	EngagementScore  int              `json:"engagement_score"`
	TriggeringPrompt string           `json:"triggering_prompt"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// Record converts m into a row ready for insertion.
func (m Mention) Record() domain.BrandMention {
	prompt := m.TriggeringPrompt
	row := domain.BrandMention{
		BrandName:   m.Brand,
		MentionText: m.Text,
		Platform:    m.Platform,
		Timestamp:   m.GeneratedAt.UTC(),
		IsProcessed: true,
	}
	if prompt != "" {
		row.TriggeringPrompt = &prompt
	}
	if m.Sentiment != "" {
		row.SentimentScore = m.Sentiment.Ptr()
	}
	return row
}

// MaxMentionsPerCall is the most paragraphs kept from one completion.
const MaxMentionsPerCall = 3

// Options tunes the completion request and batch handling.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// MaxPerCall caps the mentions taken from one response (default and
	// ceiling MaxMentionsPerCall).
	MaxPerCall int
	// DuplicateThreshold drops a paragraph whose token similarity to an
	// earlier one in the same response is at or above it (default 0.9).
	DuplicateThreshold float64
	// Now and IntN override the clock and randomness (tests).
	Now  func() time.Time
	IntN func(n int) int
}

func (o *Options) withDefaults() {
	if o.Model == "" {
		o.Model = openai.GPT3Dot5Turbo
	}
	if o.Temperature == 0 {
		o.Temperature = 0.8
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 300
	}
	if o.MaxPerCall <= 0 || o.MaxPerCall > MaxMentionsPerCall {
		o.MaxPerCall = MaxMentionsPerCall
	}
	if o.DuplicateThreshold <= 0 {
		o.DuplicateThreshold = 0.9
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.IntN == nil {
		o.IntN = rand.IntN
	}
}

// Client produces mentions for (brand, platform) pairs.
type Client struct {
	api    Completer
	guard  *quota.Guard[Mention]
	tagger sentiment.Tagger
	opts   Options
}

// New returns a Client. api may be nil (fallback mode). guard and tagger
// default to an unlimited guard and keyword tagging.
func New(api Completer, guard *quota.Guard[Mention], tagger sentiment.Tagger, opts Options) *Client {
	opts.withDefaults()
	if guard == nil {
		guard = quota.New[Mention](quota.Options{Budget: 1 << 30})
	}
	if tagger == nil {
		tagger = sentiment.NewKeyword()
	}
	return &Client{api: api, guard: guard, tagger: tagger, opts: opts}
}

// NewOpenAI builds an API client for key. baseURL overrides the endpoint
// when non-empty; timeout bounds each HTTP request.
func NewOpenAI(key, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return openai.NewClientWithConfig(cfg)
}

// Enabled reports whether an API client is configured.
func (c *Client) Enabled() bool { return c.api != nil }

// Guard exposes the quota guard (status and manual reset).
func (c *Client) Guard() *quota.Guard[Mention] { return c.guard }

// Generate returns up to MaxPerCall mentions of brand for platform. It
// never fails: errors degrade to the cached batch or an empty slice.
func (c *Client) Generate(ctx context.Context, brand, platform string) []Mention {
	if c.api == nil {
		metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeFallback).Inc()
		return []Mention{c.fallback(ctx, brand, platform)}
	}

	key := quota.Key{Brand: brand, Platform: platform}
	if !c.guard.Acquire(key) {
		return c.fromCache(key, brand, platform)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(brand)},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(brand, platform)},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("brand", brand).Str("platform", platform).Msg("generation api failed")
		metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeError).Inc()
		return c.fromCache(key, brand, platform)
	}
	if len(resp.Choices) == 0 {
		metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeEmpty).Inc()
		return []Mention{}
	}

	var texts []string
	for _, p := range search.SplitParagraphs(resp.Choices[0].Message.Content) {
		if t := search.SanitizeMention(p); t != "" {
			texts = append(texts, t)
		}
	}
	texts = c.pick(texts)
	batch := make([]Mention, 0, len(texts))
	for _, t := range texts {
		batch = append(batch, c.newMention(ctx, brand, platform, t))
	}
	if len(batch) == 0 {
		metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeEmpty).Inc()
		return batch
	}

	c.guard.Store(key, batch)
	metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeAPI).Inc()
	log.Ctx(ctx).Debug().Str("brand", brand).Str("platform", platform).Int("mentions", len(batch)).Msg("generated mentions")
	return batch
}

// pick drops near-duplicate texts and keeps at most MaxPerCall.
func (c *Client) pick(paras []string) []string {
	out := make([]string, 0, c.opts.MaxPerCall)
	for _, p := range paras {
		if len(out) == c.opts.MaxPerCall {
			break
		}
		dup := false
		for _, kept := range out {
			if search.Similarity(kept, p) >= c.opts.DuplicateThreshold {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// fromCache serves the cached batch with fresh timestamps and authors.
func (c *Client) fromCache(key quota.Key, brand, platform string) []Mention {
	cached := c.guard.Cached(key)
	if len(cached) == 0 {
		metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeEmpty).Inc()
		return []Mention{}
	}
	now := c.opts.Now().UTC()
	for i := range cached {
		cached[i].GeneratedAt = now
		cached[i].Author = c.author()
	}
	metrics.GenerationCalls.WithLabelValues(platform, metrics.OutcomeCache).Inc()
	log.Debug().Str("brand", brand).Str("platform", platform).Int("mentions", len(cached)).Msg("serving cached mentions")
	return cached
}

func (c *Client) fallback(ctx context.Context, brand, platform string) Mention {
	t := fallbackTemplates[c.opts.IntN(len(fallbackTemplates))]
	return c.newMention(ctx, brand, platform, fmt.Sprintf(t, brand))
}

func (c *Client) newMention(ctx context.Context, brand, platform, text string) Mention {
	return Mention{
		Brand:            brand,
		Platform:         platform,
		Text:             text,
		Sentiment:        c.tagger.Tag(ctx, text, brand),
		Author:           c.author(),
		EngagementScore:  1 + c.opts.IntN(100),
		TriggeringPrompt: TriggeringPrompt(brand, platform),
		GeneratedAt:      c.opts.Now().UTC(),
	}
}

func (c *Client) author() string {
	return "User_" + fmt.Sprint(1000+c.opts.IntN(9000))
}

// Platforms normalizes a configured platform list: trims, drops blanks and
// case-insensitive duplicates, and falls back to DefaultPlatforms.
func Platforms(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		k := strings.ToLower(p)
		if p == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultPlatforms...)
	}
	return out
}
