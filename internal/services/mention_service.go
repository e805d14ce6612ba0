// Package services – MentionService
//
// MentionService owns read and delete access to stored brand mentions:
// newest-first listing (by brand or platform), substring search, single
// delete and the administrative clear, which snapshots every row to the
// configured archive before deleting.
//
// All public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/archive"
	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/repo"
)

// MentionService coordinates mention queries.
type MentionService struct {
	DB *gorm.DB
	// Archiver, when set, receives a snapshot of every row before Clear.
	Archiver archive.Archiver
}

// ClearResult reports what Clear removed and where the snapshot went.
type ClearResult struct {
	Deleted   int64  `json:"deleted"`
	ArchiveID string `json:"archive_id,omitempty"`
}

// List returns up to limit mentions newest-first, optionally brand-filtered.
func (s *MentionService) List(ctx context.Context, brand string, limit int) ([]domain.BrandMention, error) {
	tr := otel.Tracer("services/MentionService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(attribute.String("brand", brand), attribute.Int("limit", limit)))
	defer span.End()

	limit, err := ValidateLimit(limit)
	if err != nil {
		return nil, err
	}
	return repo.ListMentions(ctx, s.DB, strings.TrimSpace(brand), limit)
}

// ListByPlatform returns up to limit mentions for platform, newest-first.
func (s *MentionService) ListByPlatform(ctx context.Context, platform string, limit int) ([]domain.BrandMention, error) {
	tr := otel.Tracer("services/MentionService")
	ctx, span := tr.Start(ctx, "ListByPlatform",
		trace.WithAttributes(attribute.String("platform", platform), attribute.Int("limit", limit)))
	defer span.End()

	platform = strings.TrimSpace(platform)
	if platform == "" || utf8.RuneCountInString(platform) > maxPlatformRunes {
		return nil, ErrInvalidPlatform
	}
	limit, err := ValidateLimit(limit)
	if err != nil {
		return nil, err
	}
	return repo.ListMentionsByPlatform(ctx, s.DB, platform, limit)
}

// Search returns mentions whose text contains q, newest-first.
func (s *MentionService) Search(ctx context.Context, q, brand string, limit int) ([]domain.BrandMention, error) {
	tr := otel.Tracer("services/MentionService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.Int("q_len", len(q)), attribute.String("brand", brand)))
	defer span.End()

	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < minQueryRunes {
		return nil, ErrInvalidQuery
	}
	limit, err := ValidateLimit(limit)
	if err != nil {
		return nil, err
	}
	return repo.SearchMentions(ctx, s.DB, q, strings.TrimSpace(brand), limit)
}

// Delete removes one mention. A missing id yields ErrMentionNotFound, so a
// second delete of the same id reports not-found.
func (s *MentionService) Delete(ctx context.Context, id uint) error {
	tr := otel.Tracer("services/MentionService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.Int64("mention_id", int64(id))))
	defer span.End()

	if err := repo.DeleteMention(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMentionNotFound
		}
		return err
	}
	return nil
}

// Clear deletes every mention. With an Archiver configured the rows are
// snapshotted first; a failed snapshot aborts the clear.
func (s *MentionService) Clear(ctx context.Context) (ClearResult, error) {
	tr := otel.Tracer("services/MentionService")
	ctx, span := tr.Start(ctx, "Clear")
	defer span.End()

	var res ClearResult
	if s.Archiver != nil {
		rows, err := repo.AllMentions(ctx, s.DB)
		if err != nil {
			return res, err
		}
		if len(rows) > 0 {
			id, err := s.Archiver.Archive(ctx, rows)
			if err != nil {
				return res, err
			}
			res.ArchiveID = id
		}
	}
	n, err := repo.DeleteAllMentions(ctx, s.DB)
	if err != nil {
		return res, err
	}
	res.Deleted = n
	span.SetAttributes(attribute.Int64("deleted", n))
	log.Ctx(ctx).Info().Int64("deleted", n).Str("archive", res.ArchiveID).Msg("cleared mentions")
	return res, nil
}

// ListVersion is the conditional GET validator of a mention list.
type ListVersion = repo.ListVersion

// Fingerprint returns the list version for brand.
func (s *MentionService) Fingerprint(ctx context.Context, brand string) (ListVersion, error) {
	return repo.MentionsStats(ctx, s.DB, strings.TrimSpace(brand))
}
