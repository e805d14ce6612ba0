// Package alerts posts negative brand mentions to a chat webhook
// (Microsoft Teams MessageCard format, also accepted by most incoming-webhook
// endpoints).
package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/metrics"
)

// Notifier delivers an alert for one mention.
type Notifier interface {
	Notify(ctx context.Context, m domain.BrandMention) error
}

// MessageCard is the Teams incoming-webhook payload.
type MessageCard struct {
	Type     string    `json:"@type"`
	Context  string    `json:"@context"`
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is one block of a MessageCard.
type Section struct {
	ActivityTitle string `json:"activityTitle,omitempty"`
	Facts         []Fact `json:"facts,omitempty"`
	Markdown      bool   `json:"markdown,omitempty"`
}

// Fact is a name/value row inside a Section.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Webhook posts MessageCards to URL.
type Webhook struct {
	URL    string
	client *resty.Client
}

// NewWebhook returns a Webhook for url. An empty url yields nil, which
// callers treat as "alerts disabled".
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{URL: url, client: resty.New().SetTimeout(timeout)}
}

// Notify implements Notifier. A nil Webhook drops the alert.
func (w *Webhook) Notify(ctx context.Context, m domain.BrandMention) error {
	if w == nil {
		return nil
	}
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(BuildCard(m)).
		Post(w.URL)
	if err != nil {
		metrics.AlertsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("alert webhook: %w", err)
	}
	if resp.IsError() {
		metrics.AlertsSent.WithLabelValues("error").Inc()
		return fmt.Errorf("alert webhook returned status %d: %s", resp.StatusCode(), resp.String())
	}
	metrics.AlertsSent.WithLabelValues("ok").Inc()
	log.Ctx(ctx).Debug().Uint("mention_id", m.ID).Msg("negative mention alert sent")
	return nil
}

// BuildCard renders m as a MessageCard.
func BuildCard(m domain.BrandMention) MessageCard {
	facts := []Fact{
		{Name: "Brand", Value: m.BrandName},
		{Name: "Platform", Value: m.Platform},
		{Name: "Time", Value: m.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC")},
	}
	if m.TriggeringPrompt != nil {
		facts = append(facts, Fact{Name: "Prompt", Value: *m.TriggeringPrompt})
	}
	return MessageCard{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Negative mention of %s on %s", m.BrandName, m.Platform),
		Text:    m.MentionText,
		Sections: []Section{{
			ActivityTitle: "Details",
			Facts:         facts,
			Markdown:      true,
		}},
	}
}
