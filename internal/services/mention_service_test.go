package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/repo"
)

type fakeArchiver struct {
	got []domain.BrandMention
	err error
}

func (f *fakeArchiver) Archive(_ context.Context, rows []domain.BrandMention) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got = rows
	return "archive/mentions/x.json", nil
}

func TestMentionService_List_NewestFirstAndLimit(t *testing.T) {
	db := newSvcDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		seedRows(t, db, row("Tesla", "Reddit", "t", base.Add(time.Duration(i)*time.Minute), ""))
	}
	seedRows(t, db, row("Apple", "Reddit", "a", base.Add(time.Hour), ""))

	s := &MentionService{DB: db}
	got, err := s.List(context.Background(), "Tesla", 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("want 5 rows, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatalf("rows not newest-first at %d", i)
		}
	}
	if got[0].BrandName != "Tesla" {
		t.Fatalf("brand filter not applied: %+v", got[0])
	}

	all, _ := s.List(context.Background(), "", 0)
	if len(all) != 7 {
		t.Fatalf("default limit should return all 7, got %d", len(all))
	}

	if _, err := s.List(context.Background(), "", 101); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestMentionService_ListByPlatform(t *testing.T) {
	db := newSvcDB(t)
	now := time.Now().UTC()
	seedRows(t, db,
		row("Tesla", "Reddit", "r", now, ""),
		row("Tesla", "Twitter", "t", now, ""),
	)
	s := &MentionService{DB: db}
	got, err := s.ListByPlatform(context.Background(), "Twitter", 10)
	if err != nil || len(got) != 1 || got[0].Platform != "Twitter" {
		t.Fatalf("ListByPlatform = %+v, %v", got, err)
	}
	if _, err := s.ListByPlatform(context.Background(), " ", 10); !errors.Is(err, ErrInvalidPlatform) {
		t.Fatalf("expected ErrInvalidPlatform, got %v", err)
	}
}

func TestMentionService_Search(t *testing.T) {
	db := newSvcDB(t)
	now := time.Now().UTC()
	seedRows(t, db,
		row("Tesla", "Reddit", "the autopilot is great", now, ""),
		row("Tesla", "Reddit", "range anxiety", now, ""),
		row("Apple", "Reddit", "autopilot for phones", now, ""),
	)
	s := &MentionService{DB: db}

	got, err := s.Search(context.Background(), "autopilot", "Tesla", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("Search = %+v, %v", got, err)
	}
	got, _ = s.Search(context.Background(), "AUTOPILOT", "", 0)
	if len(got) != 2 {
		t.Fatalf("case-insensitive search across brands want 2, got %d", len(got))
	}
	if _, err := s.Search(context.Background(), " a ", "", 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestMentionService_Delete_ThenNotFound(t *testing.T) {
	db := newSvcDB(t)
	rows := seedRows(t, db, row("Tesla", "Reddit", "x", time.Now(), ""))
	s := &MentionService{DB: db}

	if err := s.Delete(context.Background(), rows[0].ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(context.Background(), rows[0].ID); !errors.Is(err, ErrMentionNotFound) {
		t.Fatalf("second delete expected ErrMentionNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), 9999); !errors.Is(err, ErrMentionNotFound) {
		t.Fatalf("missing id expected ErrMentionNotFound, got %v", err)
	}
}

func TestMentionService_Clear_ArchivesFirst(t *testing.T) {
	db := newSvcDB(t)
	seedRows(t, db,
		row("Tesla", "Reddit", "a", time.Now(), ""),
		row("Tesla", "Reddit", "b", time.Now(), ""),
	)
	arc := &fakeArchiver{}
	s := &MentionService{DB: db, Archiver: arc}

	res, err := s.Clear(context.Background())
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if res.Deleted != 2 || res.ArchiveID == "" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(arc.got) != 2 || arc.got[0].MentionText != "a" {
		t.Fatalf("archive snapshot mismatch: %+v", arc.got)
	}
	n, _ := repo.CountMentions(context.Background(), db, "", nil)
	if n != 0 {
		t.Fatalf("want empty table, got %d", n)
	}
}

func TestMentionService_Clear_ArchiveFailureKeepsRows(t *testing.T) {
	db := newSvcDB(t)
	seedRows(t, db, row("Tesla", "Reddit", "a", time.Now(), ""))
	s := &MentionService{DB: db, Archiver: &fakeArchiver{err: errors.New("offline")}}

	if _, err := s.Clear(context.Background()); err == nil {
		t.Fatal("expected archive error")
	}
	n, _ := repo.CountMentions(context.Background(), db, "", nil)
	if n != 1 {
		t.Fatalf("rows must survive a failed archive, got %d", n)
	}
}

func TestMentionService_Clear_WithoutArchiver(t *testing.T) {
	db := newSvcDB(t)
	seedRows(t, db, row("Tesla", "Reddit", "a", time.Now(), ""))
	res, err := (&MentionService{DB: db}).Clear(context.Background())
	if err != nil || res.Deleted != 1 || res.ArchiveID != "" {
		t.Fatalf("Clear = %+v, %v", res, err)
	}
}
