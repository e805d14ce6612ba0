package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/monitor"
	"github.com/tbourn/brand-mentions/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedRows(t *testing.T, db *gorm.DB, rows ...domain.BrandMention) []domain.BrandMention {
	t.Helper()
	out, err := repo.CreateMentions(context.Background(), db, rows)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return out
}

func row(brand, platform, text string, at time.Time, s domain.Sentiment) domain.BrandMention {
	m := domain.BrandMention{BrandName: brand, Platform: platform, MentionText: text, Timestamp: at, IsProcessed: true}
	if s != "" {
		m.SentimentScore = s.Ptr()
	}
	return m
}

// configRepo adapts the repo functions to ConfigRepo.
type configRepo struct{}

func (configRepo) Activate(ctx context.Context, db *gorm.DB, brand string, platforms []string) (*domain.MonitoringConfig, error) {
	return repo.ActivateMonitoringConfig(ctx, db, brand, platforms)
}
func (configRepo) DeactivateAll(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.DeactivateMonitoringConfigs(ctx, db)
}
func (configRepo) Deactivate(ctx context.Context, db *gorm.DB, id uint) error {
	return repo.DeactivateMonitoringConfig(ctx, db, id)
}
func (configRepo) ListActive(ctx context.Context, db *gorm.DB) ([]domain.MonitoringConfig, error) {
	return repo.ListActiveMonitoringConfigs(ctx, db)
}

type fakeMonitor struct {
	mu        sync.Mutex
	status    monitor.Status
	sessions  []monitor.Session
	stops     int
	startErr  error
	platforms []string
}

func (f *fakeMonitor) Start(_ context.Context, s monitor.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.sessions = append(f.sessions, s)
	now := time.Now().UTC()
	f.status = monitor.Status{State: monitor.StateRunning, Active: true, Brand: s.Brand, Platforms: s.Platforms, StartedAt: &now}
	return nil
}

func (f *fakeMonitor) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.status = monitor.Status{State: monitor.StateIdle, Platforms: f.platforms}
}

func (f *fakeMonitor) Status() monitor.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeMonitor) Platforms() []string { return f.platforms }

type fakeHub struct {
	mu     sync.Mutex
	events []hub.Event
}

func (f *fakeHub) Broadcast(_ context.Context, ev hub.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return 1, nil
}

func (f *fakeHub) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fakeQuota struct{ calls, budget int }

func (f *fakeQuota) Calls() int     { return f.calls }
func (f *fakeQuota) Remaining() int { return f.budget - f.calls }
func (f *fakeQuota) Budget() int    { return f.budget }
func (f *fakeQuota) Reset()         { f.calls = 0 }
