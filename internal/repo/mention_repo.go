// Package repo: BrandMention persistence. Functions take the *gorm.DB to
// use, so callers can pass a transaction, and hold no business rules.
package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateMentions inserts rows as one all-or-nothing transaction and returns
// them with their assigned IDs. Zero timestamps are set to now (UTC).
func CreateMentions(ctx context.Context, db *gorm.DB, rows []domain.BrandMention) ([]domain.BrandMention, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	now := time.Now().UTC()
	for i := range rows {
		if rows[i].Timestamp.IsZero() {
			rows[i].Timestamp = now
		} else {
			rows[i].Timestamp = rows[i].Timestamp.UTC()
		}
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMentions returns up to limit mentions newest-first, optionally
// restricted to brand (empty brand means all brands).
func ListMentions(ctx context.Context, db *gorm.DB, brand string, limit int) ([]domain.BrandMention, error) {
	var out []domain.BrandMention
	err := byBrand(db.WithContext(ctx), brand).
		Order("timestamp desc").
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListMentionsByPlatform returns up to limit mentions for platform,
// newest-first.
func ListMentionsByPlatform(ctx context.Context, db *gorm.DB, platform string, limit int) ([]domain.BrandMention, error) {
	var out []domain.BrandMention
	err := db.WithContext(ctx).
		Where("platform = ?", platform).
		Order("timestamp desc").
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SearchMentions returns up to limit mentions whose text contains q
// (case-insensitive for ASCII, as SQLite LIKE), newest-first.
// LIKE wildcards in q are matched literally.
func SearchMentions(ctx context.Context, db *gorm.DB, q, brand string, limit int) ([]domain.BrandMention, error) {
	var out []domain.BrandMention
	err := byBrand(db.WithContext(ctx), brand).
		Where(`mention_text LIKE ? ESCAPE '\'`, "%"+escapeLike(q)+"%").
		Order("timestamp desc").
		Order("id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// AllMentions returns every mention oldest-first (archive snapshots).
func AllMentions(ctx context.Context, db *gorm.DB) ([]domain.BrandMention, error) {
	var out []domain.BrandMention
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// GetMention fetches a single mention by id, or ErrNotFound.
func GetMention(ctx context.Context, db *gorm.DB, id uint) (*domain.BrandMention, error) {
	var m domain.BrandMention
	if err := db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMention removes the mention with id. It returns ErrNotFound when no
// row was affected.
func DeleteMention(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.BrandMention{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllMentions removes every mention and reports how many rows were
// deleted.
func DeleteAllMentions(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.BrandMention{})
	return res.RowsAffected, res.Error
}

// MentionTimestamps returns the timestamps of mentions at or after since,
// optionally brand-filtered. Bucketing is left to the caller so it does not
// depend on SQLite's handling of the stored datetime text.
func MentionTimestamps(ctx context.Context, db *gorm.DB, brand string, since time.Time) ([]time.Time, error) {
	var out []time.Time
	err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).
		Where("timestamp >= ?", since.UTC()).
		Order("timestamp asc").
		Pluck("timestamp", &out).Error
	return out, err
}

// MentionTexts returns the text of the newest limit mentions, optionally
// brand-filtered.
func MentionTexts(ctx context.Context, db *gorm.DB, brand string, limit int) ([]string, error) {
	var out []string
	err := byBrand(db.WithContext(ctx).Model(&domain.BrandMention{}), brand).
		Order("timestamp desc").
		Limit(limit).
		Pluck("mention_text", &out).Error
	return out, err
}

func byBrand(q *gorm.DB, brand string) *gorm.DB {
	if brand == "" {
		return q
	}
	return q.Where("brand_name = ?", brand)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
