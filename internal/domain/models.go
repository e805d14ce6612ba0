// Package domain defines the persistence models for tracked brand mentions
// and monitoring sessions. These types are mapped with GORM and form the core
// data layer of the tracker.
package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Sentiment is the coarse polarity label attached to a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists every valid label in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// ParseSentiment maps a free-form label (case and surrounding space ignored)
// to a Sentiment. The second return is false for anything else.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNegative:
		return SentimentNegative, true
	case SentimentNeutral:
		return SentimentNeutral, true
	}
	return "", false
}

// Ptr returns the label as a nullable column value.
func (s Sentiment) Ptr() *string {
	v := string(s)
	return &v
}

// BrandMention is one fabricated or collected snippet that references a
// tracked brand. Rows are append-only: they are inserted in batches by the
// monitoring loop (or the demo seeder) and only ever removed by id or by an
// administrative clear.
//
// Fields:
//   - ID: autoincrement primary key assigned on insert.
//   - BrandName: tracked brand (indexed).
//   - MentionText: sanitized mention body.
//   - Platform: platform label the mention was generated for (indexed).
//   - Timestamp: UTC creation instant (indexed, newest-first ordering).
//   - TriggeringPrompt: optional description of what produced the mention.
//   - IsProcessed: set for rows that need no further enrichment.
//   - SentimentScore: optional label, one of positive|negative|neutral.
type BrandMention struct {
	ID               uint      `json:"id"                gorm:"primaryKey;autoIncrement"`
	BrandName        string    `json:"brand_name"        gorm:"type:varchar(100);not null;index"`
	MentionText      string    `json:"mention_text"      gorm:"type:text;not null"`
	Platform         string    `json:"platform"          gorm:"type:varchar(50);not null;index"`
	Timestamp        time.Time `json:"timestamp"         gorm:"not null;index"`
	TriggeringPrompt *string   `json:"triggering_prompt"`
	IsProcessed      bool      `json:"is_processed"      gorm:"not null"`
	SentimentScore   *string   `json:"sentiment_score"   gorm:"type:varchar(20);check:sentiment_score IS NULL OR sentiment_score IN ('positive','negative','neutral')"`
}

// TableName returns the database table name for BrandMention.
func (BrandMention) TableName() string { return "brand_mentions" }

// Sentiment returns the parsed sentiment label, or false when absent.
func (m BrandMention) Sentiment() (Sentiment, bool) {
	if m.SentimentScore == nil {
		return "", false
	}
	return ParseSentiment(*m.SentimentScore)
}

// MonitoringConfig records one monitoring session request. Starting a new
// session deactivates every earlier active row, so at most one row is active
// at a time. The in-memory loop, not this table, is the source of truth for
// whether a session is currently running.
type MonitoringConfig struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	BrandName string    `json:"brand_name" gorm:"type:varchar(100);not null"`
	IsActive  bool      `json:"is_active"  gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	// JSON array in a text column
	Platforms datatypes.JSONSlice[string] `json:"platforms" gorm:"type:text;not null"`
}

// TableName returns the database table name for MonitoringConfig.
func (MonitoringConfig) TableName() string { return "monitoring_config" }
