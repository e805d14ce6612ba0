// Package services – StatsService
//
// StatsService computes the dashboard aggregates: overview totals, platform
// and sentiment breakdowns, the hourly histogram over a lookback window and
// the most frequent keywords in recent mention text.
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/monitor"
	"github.com/tbourn/brand-mentions/internal/repo"
	"github.com/tbourn/brand-mentions/internal/search"
)

// StatusProvider reports the live monitoring state.
type StatusProvider interface {
	Status() monitor.Status
}

// StatsService serves aggregate queries.
type StatsService struct {
	DB        *gorm.DB
	Monitor   StatusProvider
	Platforms []string
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Overview is the headline stats payload.
type Overview struct {
	TotalMentions  int64   `json:"total_mentions"`
	RecentMentions int64   `json:"recent_mentions"`
	IsMonitoring   bool    `json:"is_monitoring"`
	CurrentBrand   *string `json:"current_brand"`
}

// PlatformBreakdown maps platform labels to mention counts.
type PlatformBreakdown struct {
	Breakdown       map[string]int64 `json:"platform_breakdown"`
	TotalPlatforms  int              `json:"total_platforms"`
	ActivePlatforms int              `json:"active_platforms"`
}

// SentimentBreakdown counts labelled mentions. Percentages are relative to
// TotalAnalyzed, so unlabelled rows never contribute.
type SentimentBreakdown struct {
	Breakdown     map[string]int64   `json:"sentiment_breakdown"`
	TotalAnalyzed int64              `json:"total_analyzed"`
	Percentages   map[string]float64 `json:"sentiment_percentages"`
}

// HourBucket is one histogram bar.
type HourBucket struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// Timeframe is the hourly histogram for a lookback window.
type Timeframe struct {
	TotalMentions  int          `json:"total_mentions"`
	TimeframeHours int          `json:"timeframe_hours"`
	BrandName      *string      `json:"brand_name"`
	Hourly         []HourBucket `json:"hourly_breakdown"`
}

func (s *StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Overview returns the all-time and last-24h totals plus the live session.
func (s *StatsService) Overview(ctx context.Context, brand string) (Overview, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "Overview", trace.WithAttributes(attribute.String("brand", brand)))
	defer span.End()

	brand = strings.TrimSpace(brand)
	var out Overview
	total, err := repo.CountMentions(ctx, s.DB, brand, nil)
	if err != nil {
		return out, err
	}
	since := s.now().Add(-24 * time.Hour)
	recent, err := repo.CountMentions(ctx, s.DB, brand, &since)
	if err != nil {
		return out, err
	}
	out.TotalMentions, out.RecentMentions = total, recent
	if s.Monitor != nil {
		st := s.Monitor.Status()
		out.IsMonitoring = st.Active
		if st.Active && st.Brand != "" {
			b := st.Brand
			out.CurrentBrand = &b
		}
	}
	return out, nil
}

// PlatformList returns the configured platforms.
func (s *StatsService) PlatformList() []string {
	return append([]string(nil), s.Platforms...)
}

// PlatformBreakdown counts mentions per platform.
func (s *StatsService) PlatformBreakdown(ctx context.Context, brand string) (PlatformBreakdown, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "PlatformBreakdown", trace.WithAttributes(attribute.String("brand", brand)))
	defer span.End()

	rows, err := repo.CountByPlatform(ctx, s.DB, strings.TrimSpace(brand))
	if err != nil {
		return PlatformBreakdown{}, err
	}
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		m[r.Name] = r.Total
	}
	return PlatformBreakdown{Breakdown: m, TotalPlatforms: len(s.Platforms), ActivePlatforms: len(m)}, nil
}

// SentimentBreakdown counts mentions per sentiment label with percentages.
func (s *StatsService) SentimentBreakdown(ctx context.Context, brand string) (SentimentBreakdown, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "SentimentBreakdown", trace.WithAttributes(attribute.String("brand", brand)))
	defer span.End()

	rows, err := repo.CountBySentiment(ctx, s.DB, strings.TrimSpace(brand))
	if err != nil {
		return SentimentBreakdown{}, err
	}
	out := SentimentBreakdown{
		Breakdown:   make(map[string]int64, len(rows)),
		Percentages: make(map[string]float64, len(rows)),
	}
	for _, r := range rows {
		out.Breakdown[r.Name] = r.Total
		out.TotalAnalyzed += r.Total
	}
	for k, v := range out.Breakdown {
		if out.TotalAnalyzed > 0 {
			out.Percentages[k] = float64(v) / float64(out.TotalAnalyzed) * 100
		} else {
			out.Percentages[k] = 0
		}
	}
	return out, nil
}

// Timeframe buckets mentions with timestamp >= now-hours by UTC hour. A
// partial first hour is labelled with the window start, so no bucket
// predates the window and TotalMentions counts the whole window.
func (s *StatsService) Timeframe(ctx context.Context, hours int, brand string) (Timeframe, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "Timeframe",
		trace.WithAttributes(attribute.Int("hours", hours), attribute.String("brand", brand)))
	defer span.End()

	if hours < 1 || hours > MaxTimeframeHours {
		return Timeframe{}, ErrInvalidTimeframe
	}
	brand = strings.TrimSpace(brand)

	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	stamps, err := repo.MentionTimestamps(ctx, s.DB, brand, since)
	if err != nil {
		return Timeframe{}, err
	}

	counts := make(map[time.Time]int)
	for _, ts := range stamps {
		h := ts.UTC().Truncate(time.Hour)
		if h.Before(since) {
			h = since
		}
		counts[h]++
	}
	out := Timeframe{TotalMentions: len(stamps), TimeframeHours: hours, Hourly: make([]HourBucket, 0, len(counts))}
	if brand != "" {
		out.BrandName = &brand
	}
	for h, n := range counts {
		out.Hourly = append(out.Hourly, HourBucket{Hour: h, Count: n})
	}
	sort.Slice(out.Hourly, func(i, j int) bool { return out.Hourly[i].Hour.Before(out.Hourly[j].Hour) })
	return out, nil
}

// Keywords returns the most frequent words across the newest MaxLimit
// mentions for brand, ignoring stopwords and the brand name itself.
func (s *StatsService) Keywords(ctx context.Context, brand string, n int) ([]search.Keyword, error) {
	tr := otel.Tracer("services/StatsService")
	ctx, span := tr.Start(ctx, "Keywords",
		trace.WithAttributes(attribute.String("brand", brand), attribute.Int("n", n)))
	defer span.End()

	brand = strings.TrimSpace(brand)
	texts, err := repo.MentionTexts(ctx, s.DB, brand, MaxLimit)
	if err != nil {
		return nil, err
	}
	return search.TopKeywords(texts, n, search.WithExtraStopwords(strings.Fields(strings.ToLower(brand))...)), nil
}
