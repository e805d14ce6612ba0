package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tbourn/brand-mentions/internal/domain"
)

func TestCountMentions_Error_NoTable(t *testing.T) {
	db := newTestDB(t, false)
	if _, err := CountMentions(context.Background(), db, "", nil); err == nil {
		t.Fatalf("expected error due to missing table")
	}
}

func TestAggregates_SumToSeededTotal(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := []domain.BrandMention{
		mention("Tesla", "Reddit", "1", now, sent(domain.SentimentPositive)),
		mention("Tesla", "Reddit", "2", now, sent(domain.SentimentNegative)),
		mention("Tesla", "Twitter", "3", now, sent(domain.SentimentPositive)),
		mention("Tesla", "LinkedIn", "4", now, nil),
		mention("Tesla", "Reddit", "5", now, sent(domain.SentimentNeutral)),
		mention("Apple", "Reddit", "6", now, sent(domain.SentimentPositive)),
	}
	if _, err := CreateMentions(ctx, db, rows); err != nil {
		t.Fatalf("seed: %v", err)
	}

	byPlatform, err := CountByPlatform(ctx, db, "Tesla")
	if err != nil {
		t.Fatalf("CountByPlatform: %v", err)
	}
	want := []GroupCount{{"Reddit", 3}, {"LinkedIn", 1}, {"Twitter", 1}}
	if diff := cmp.Diff(want, byPlatform); diff != "" {
		t.Fatalf("platform counts (-want +got):\n%s", diff)
	}
	var sum int64
	for _, g := range byPlatform {
		sum += g.Total
	}
	if sum != 5 {
		t.Fatalf("platform counts sum to %d; want 5", sum)
	}

	bySent, err := CountBySentiment(ctx, db, "Tesla")
	if err != nil {
		t.Fatalf("CountBySentiment: %v", err)
	}
	wantSent := []GroupCount{{"negative", 1}, {"neutral", 1}, {"positive", 2}}
	if diff := cmp.Diff(wantSent, bySent); diff != "" {
		t.Fatalf("sentiment counts (-want +got):\n%s", diff)
	}

	all, _ := CountBySentiment(ctx, db, "")
	sum = 0
	for _, g := range all {
		sum += g.Total
	}
	if sum != 5 {
		t.Fatalf("sentiment counts over non-null rows = %d; want 5", sum)
	}
}

func TestCountMentions_Since(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	now := time.Now().UTC()

	_, _ = CreateMentions(ctx, db, []domain.BrandMention{
		mention("Tesla", "Reddit", "fresh", now.Add(-time.Hour), nil),
		mention("Tesla", "Reddit", "stale", now.Add(-48*time.Hour), nil),
	})

	since := now.Add(-24 * time.Hour)
	recent, err := CountMentions(ctx, db, "Tesla", &since)
	if err != nil {
		t.Fatalf("CountMentions: %v", err)
	}
	total, _ := CountMentions(ctx, db, "Tesla", nil)
	if recent != 1 || total != 2 {
		t.Fatalf("recent=%d total=%d", recent, total)
	}
}

func TestMentionsStats(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	v, err := MentionsStats(ctx, db, "Tesla")
	if err != nil || v != (ListVersion{}) {
		t.Fatalf("empty: v=%+v err=%v", v, err)
	}

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows, _ := CreateMentions(ctx, db, []domain.BrandMention{
		mention("Tesla", "Reddit", "a", base, nil),
		mention("Tesla", "Reddit", "b", base.Add(time.Minute), nil),
	})
	v, err = MentionsStats(ctx, db, "Tesla")
	if err != nil {
		t.Fatalf("MentionsStats: %v", err)
	}
	if v.Count != 2 || v.MaxID != rows[1].ID || v.Latest == nil || !v.Latest.Equal(base.Add(time.Minute)) {
		t.Fatalf("v=%+v", v)
	}
}

func TestMentionsStats_ChangesWhenCountAndNewestAreUnchanged(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	base := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	rows, err := CreateMentions(ctx, db, []domain.BrandMention{
		mention("Tesla", "Reddit", "oldest", base, nil),
		mention("Tesla", "Reddit", "middle", base.Add(time.Hour), nil),
		mention("Tesla", "Reddit", "newest", base.Add(2*time.Hour), nil),
	})
	if err != nil {
		t.Fatalf("CreateMentions: %v", err)
	}
	before, _ := MentionsStats(ctx, db, "Tesla")

	if err := DeleteMention(ctx, db, rows[0].ID); err != nil {
		t.Fatalf("DeleteMention: %v", err)
	}
	if _, err := CreateMentions(ctx, db, []domain.BrandMention{
		mention("Tesla", "Reddit", "backfilled", base.Add(30*time.Minute), nil),
	}); err != nil {
		t.Fatalf("CreateMentions: %v", err)
	}
	after, _ := MentionsStats(ctx, db, "Tesla")

	if after.Count != before.Count || !after.Latest.Equal(*before.Latest) {
		t.Fatalf("setup: count/newest should match, before=%+v after=%+v", before, after)
	}
	if after.MaxID <= before.MaxID {
		t.Fatalf("version must move: before=%+v after=%+v", before, after)
	}
}
