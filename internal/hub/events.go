package hub

import (
	"time"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// Event types pushed to listeners.
const (
	TypeMention   = "mention"
	TypeStatus    = "status"
	TypeError     = "error"
	TypeConnected = "connected"
	TypePing      = "ping"
	TypePong      = "pong"
)

// Event is the JSON frame sent over the socket: {"type": ..., "data": ...}.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// MentionData is the payload of a mention event.
type MentionData struct {
	ID               uint      `json:"id,omitempty"`
	BrandName        string    `json:"brand_name"`
	MentionText      string    `json:"mention_text"`
	Platform         string    `json:"platform"`
	Timestamp        time.Time `json:"timestamp"`
	TriggeringPrompt *string   `json:"triggering_prompt"`
	SentimentScore   *string   `json:"sentiment_score"`
	Author           string    `json:"author,omitempty"`
	EngagementScore  int       `json:"engagement_score,omitempty"`
}

// StatusData is the payload of a status event.
type StatusData struct {
	IsActive bool    `json:"is_active"`
	Brand    *string `json:"brand"`
}

// MessageData carries a human-readable message.
type MessageData struct {
	Message string `json:"message"`
}

// ConnectedData greets a newly connected client.
type ConnectedData struct {
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
}

// ConnectedMessage is the greeting text of the connected frame.
const ConnectedMessage = "Connected to AI Brand Mention Tracker"

// MentionEvent wraps a persisted row. author and engagement are optional
// extras that are broadcast but never stored.
func MentionEvent(m domain.BrandMention, author string, engagement int) Event {
	return Event{Type: TypeMention, Data: MentionData{
		ID:               m.ID,
		BrandName:        m.BrandName,
		MentionText:      m.MentionText,
		Platform:         m.Platform,
		Timestamp:        m.Timestamp.UTC(),
		TriggeringPrompt: m.TriggeringPrompt,
		SentimentScore:   m.SentimentScore,
		Author:           author,
		EngagementScore:  engagement,
	}}
}

// StatusEvent reports a monitoring state change. brand is null when empty.
func StatusEvent(active bool, brand string) Event {
	d := StatusData{IsActive: active}
	if brand != "" {
		d.Brand = &brand
	}
	return Event{Type: TypeStatus, Data: d}
}

// ErrorEvent reports a failure to clients.
func ErrorEvent(msg string) Event {
	return Event{Type: TypeError, Data: MessageData{Message: msg}}
}

// ConnectedEvent greets a new client with the monitored platforms.
func ConnectedEvent(platforms []string) Event {
	if platforms == nil {
		platforms = []string{}
	}
	return Event{Type: TypeConnected, Data: ConnectedData{Message: ConnectedMessage, Platforms: platforms}}
}

// PingEvent is the heartbeat frame.
func PingEvent() Event {
	return Event{Type: TypePing, Data: struct{}{}}
}
