// Package repo: aggregate queries over brand_mentions for the stats
// endpoints and for the ETag fingerprint of mention lists.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	Name  string
	Total int64
}

// CountMentions returns the number of mentions, optionally brand-filtered
// and optionally restricted to timestamp >= since (nil means all time).
func CountMentions(ctx context.Context, db *gorm.DB, brand string, since *time.Time) (int64, error) {
	q := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand)
	if since != nil {
		q = q.Where("timestamp >= ?", since.UTC())
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CountByPlatform returns mention counts grouped by platform, largest first.
func CountByPlatform(ctx context.Context, db *gorm.DB, brand string) ([]GroupCount, error) {
	var out []GroupCount
	err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).
		Select("platform AS name, COUNT(*) AS total").
		Group("platform").
		Order("total desc").
		Order("platform asc").
		Scan(&out).Error
	return out, err
}

// CountBySentiment returns mention counts grouped by sentiment label.
// Rows without a sentiment are excluded.
func CountBySentiment(ctx context.Context, db *gorm.DB, brand string) ([]GroupCount, error) {
	var out []GroupCount
	err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).
		Where("sentiment_score IS NOT NULL").
		Select("sentiment_score AS name, COUNT(*) AS total").
		Group("sentiment_score").
		Order("sentiment_score asc").
		Scan(&out).Error
	return out, err
}

// ListVersion identifies the state of a mention list. MaxID moves on every
// insert and Count on every delete; AUTOINCREMENT ids are never reused.
type ListVersion struct {
	Count  int64
	MaxID  uint
	Latest *time.Time
}

// MentionsStats returns the ListVersion of a brand's mentions (all brands
// when empty). With no rows it is the zero value.
func MentionsStats(ctx context.Context, db *gorm.DB, brand string) (ListVersion, error) {
	var v ListVersion
	if err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).Count(&v.Count).Error; err != nil {
		return ListVersion{}, err
	}
	if v.Count == 0 {
		return ListVersion{}, nil
	}

	var maxID struct{ ID uint }
	if err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).
		Select("MAX(id) AS id").Scan(&maxID).Error; err != nil {
		return ListVersion{}, err
	}
	v.MaxID = maxID.ID

	// ORDER BY instead of MAX(): SQLite returns MAX(timestamp) as TEXT
	var row struct {
		Timestamp time.Time
	}
	q := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand)
	if err := q.Select("timestamp").Order("timestamp DESC").Limit(1).Scan(&row).Error; err != nil {
		return ListVersion{}, err
	}
	v.Latest = &row.Timestamp
	return v, nil
}
