package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/brand-mentions/internal/domain"
	"github.com/tbourn/brand-mentions/internal/generation"
	"github.com/tbourn/brand-mentions/internal/hub"
	"github.com/tbourn/brand-mentions/internal/metrics"
	"github.com/tbourn/brand-mentions/internal/repo"
)

type fakeNotifier struct {
	mu  sync.Mutex
	ids []uint
}

func (f *fakeNotifier) Notify(_ context.Context, m domain.BrandMention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, m.ID)
	return nil
}

func newMonitoringSvc(t *testing.T) (*MonitoringService, *fakeMonitor, *fakeHub) {
	t.Helper()
	mon := &fakeMonitor{platforms: []string{"ChatGPT", "Reddit"}}
	mon.Stop()
	mon.stops = 0
	h := &fakeHub{}
	return &MonitoringService{
		DB:      newSvcDB(t),
		Configs: configRepo{},
		Loop:    mon,
		Hub:     h,
		Quota:   &fakeQuota{calls: 4, budget: 15},
	}, mon, h
}

func TestMonitoringService_Start_ValidatesAndBroadcasts(t *testing.T) {
	s, mon, h := newMonitoringSvc(t)
	ctx := context.Background()

	if _, err := s.Start(ctx, "T", nil); !errors.Is(err, ErrInvalidBrand) {
		t.Fatalf("expected ErrInvalidBrand, got %v", err)
	}
	if len(mon.sessions) != 0 || len(h.events) != 0 {
		t.Fatal("invalid start must not reach the loop or the hub")
	}

	brand, err := s.Start(ctx, "  Tesla  Motors ", nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if brand != "Tesla Motors" {
		t.Fatalf("brand not cleaned: %q", brand)
	}
	if diff := cmp.Diff([]string{"ChatGPT", "Reddit"}, mon.sessions[0].Platforms); diff != "" {
		t.Fatalf("platforms should default to the loop's (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{hub.TypeStatus}, h.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	sd := h.events[0].Data.(hub.StatusData)
	if !sd.IsActive || sd.Brand == nil || *sd.Brand != "Tesla Motors" {
		t.Fatalf("status payload %+v", sd)
	}

	cfgs, err := s.ActiveConfigs(ctx)
	if err != nil || len(cfgs) != 1 || cfgs[0].BrandName != "Tesla Motors" {
		t.Fatalf("ActiveConfigs = %+v, %v", cfgs, err)
	}
}

func TestMonitoringService_Start_SupersedesConfig(t *testing.T) {
	s, mon, _ := newMonitoringSvc(t)
	ctx := context.Background()

	if _, err := s.Start(ctx, "Tesla", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(ctx, "Apple", []string{"YouTube"}); err != nil {
		t.Fatal(err)
	}
	cfgs, _ := s.ActiveConfigs(ctx)
	if len(cfgs) != 1 || cfgs[0].BrandName != "Apple" {
		t.Fatalf("only the newest config may be active: %+v", cfgs)
	}
	if diff := cmp.Diff([]string{"YouTube"}, []string(cfgs[0].Platforms)); diff != "" {
		t.Fatalf("stored platforms (-want +got):\n%s", diff)
	}
	if mon.Status().Brand != "Apple" {
		t.Fatalf("loop brand = %q", mon.Status().Brand)
	}
}

func TestMonitoringService_StopAndStatus(t *testing.T) {
	s, mon, h := newMonitoringSvc(t)
	ctx := context.Background()

	if _, err := s.Start(ctx, "Tesla", nil); err != nil {
		t.Fatal(err)
	}
	st := s.Status(ctx)
	if !st.IsActive || st.CurrentBrand == nil || *st.CurrentBrand != "Tesla" || st.PlatformsCount != 2 {
		t.Fatalf("running status %+v", st)
	}
	if st.APICallsUsed != 4 || st.APICallsRemaining != 11 || st.StartTime == nil {
		t.Fatalf("quota fields %+v", st)
	}

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if mon.stops != 1 {
		t.Fatalf("loop stop calls = %d", mon.stops)
	}
	st = s.Status(ctx)
	if st.IsActive || st.CurrentBrand != nil {
		t.Fatalf("idle status %+v", st)
	}
	cfgs, _ := s.ActiveConfigs(ctx)
	if len(cfgs) != 0 {
		t.Fatalf("stop must deactivate configs: %+v", cfgs)
	}
	last := h.events[len(h.events)-1].Data.(hub.StatusData)
	if last.IsActive || last.Brand != nil {
		t.Fatalf("stop status payload %+v", last)
	}

	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestMonitoringService_ResetQuota(t *testing.T) {
	s, _, _ := newMonitoringSvc(t)
	q := s.ResetQuota(context.Background())
	if q != (QuotaStatus{Used: 0, Remaining: 15, Budget: 15}) {
		t.Fatalf("ResetQuota = %+v", q)
	}
	s.Quota = nil
	if q := s.ResetQuota(context.Background()); q != (QuotaStatus{}) {
		t.Fatalf("nil quota = %+v", q)
	}
}

func TestMonitoringService_DeactivateConfig(t *testing.T) {
	s, _, _ := newMonitoringSvc(t)
	ctx := context.Background()
	if _, err := s.Start(ctx, "Tesla", nil); err != nil {
		t.Fatal(err)
	}
	cfgs, _ := s.ActiveConfigs(ctx)
	if err := s.DeactivateConfig(ctx, cfgs[0].ID); err != nil {
		t.Fatalf("DeactivateConfig: %v", err)
	}
	if err := s.DeactivateConfig(ctx, 4242); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestMonitoringService_Persist_StoresBroadcastsAndAlerts(t *testing.T) {
	s, _, h := newMonitoringSvc(t)
	n := &fakeNotifier{}
	s.Alerts = n
	ctx := context.Background()
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	batch := []generation.Mention{
		{Brand: "Tesla", Platform: "Reddit", Text: "love it", Sentiment: domain.SentimentPositive, Author: "User_1234", EngagementScore: 7, TriggeringPrompt: "p", GeneratedAt: at},
		{Brand: "Tesla", Platform: "Twitter", Text: "awful", Sentiment: domain.SentimentNegative, Author: "User_5678", EngagementScore: 9, TriggeringPrompt: "p", GeneratedAt: at},
	}
	base := testutil.ToFloat64(metrics.MentionsPersisted)
	if err := s.Persist(ctx, "Tesla", batch); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	s.WaitAlerts()

	if got := testutil.ToFloat64(metrics.MentionsPersisted); got != base+2 {
		t.Fatalf("persisted metric = %v, want %v", got, base+2)
	}
	rows, _ := repo.ListMentions(ctx, s.DB, "Tesla", 10)
	if len(rows) != 2 {
		t.Fatalf("want 2 stored rows, got %d", len(rows))
	}
	if diff := cmp.Diff([]string{hub.TypeMention, hub.TypeMention}, h.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	md := h.events[1].Data.(hub.MentionData)
	if md.ID == 0 || md.Author != "User_5678" || md.EngagementScore != 9 || md.MentionText != "awful" {
		t.Fatalf("mention payload %+v", md)
	}
	if len(n.ids) != 1 || n.ids[0] != md.ID {
		t.Fatalf("only the negative row should alert: %v", n.ids)
	}
}

func TestMonitoringService_Persist_StoreFailureBroadcastsError(t *testing.T) {
	s, _, h := newMonitoringSvc(t)
	sqlDB, _ := s.DB.DB()
	_ = sqlDB.Close()

	err := s.Persist(context.Background(), "Tesla", []generation.Mention{{Brand: "Tesla", Platform: "Reddit", Text: "x"}})
	if err == nil {
		t.Fatal("expected store error")
	}
	if diff := cmp.Diff([]string{hub.TypeError}, h.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

// gatedConfigs holds Activate for one brand until release is closed.
type gatedConfigs struct {
	configRepo
	brand   string
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls []string
}

func (g *gatedConfigs) Activate(ctx context.Context, db *gorm.DB, brand string, platforms []string) (*domain.MonitoringConfig, error) {
	g.mu.Lock()
	g.calls = append(g.calls, brand)
	g.mu.Unlock()
	if brand == g.brand {
		close(g.entered)
		<-g.release
	}
	return g.configRepo.Activate(ctx, db, brand, platforms)
}

func (g *gatedConfigs) activated() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func TestMonitoringService_ConcurrentStartsKeepConfigAndLoopInStep(t *testing.T) {
	s, mon, _ := newMonitoringSvc(t)
	ctx := context.Background()
	gate := &gatedConfigs{brand: "Tesla", entered: make(chan struct{}), release: make(chan struct{})}
	s.Configs = gate

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.Start(ctx, "Tesla", nil)
	}()
	<-gate.entered
	go func() {
		defer wg.Done()
		_, _ = s.Start(ctx, "Apple", nil)
	}()

	time.Sleep(50 * time.Millisecond)
	if diff := cmp.Diff([]string{"Tesla"}, gate.activated()); diff != "" {
		t.Fatalf("second Start must wait for the first (-want +got):\n%s", diff)
	}
	close(gate.release)
	wg.Wait()

	cfgs, err := s.ActiveConfigs(ctx)
	if err != nil || len(cfgs) != 1 {
		t.Fatalf("ActiveConfigs = %+v, %v", cfgs, err)
	}
	if got := mon.Status().Brand; got != cfgs[0].BrandName {
		t.Fatalf("loop runs %q but the active config is %q", got, cfgs[0].BrandName)
	}
	if cfgs[0].BrandName != "Apple" {
		t.Fatalf("last Start should win, active=%q", cfgs[0].BrandName)
	}
}

func TestMonitoringService_CloseRefusesLaterStarts(t *testing.T) {
	s, mon, _ := newMonitoringSvc(t)
	ctx := context.Background()

	if _, err := s.Start(ctx, "Tesla", nil); err != nil {
		t.Fatal(err)
	}
	s.Close()
	if mon.Status().Active || mon.stops != 1 {
		t.Fatalf("Close must stop the loop: %+v stops=%d", mon.Status(), mon.stops)
	}

	if _, err := s.Start(ctx, "Apple", nil); !errors.Is(err, ErrMonitoringClosed) {
		t.Fatalf("expected ErrMonitoringClosed, got %v", err)
	}
	if len(mon.sessions) != 1 || mon.Status().Active {
		t.Fatalf("a closed service must not restart the loop: sessions=%d", len(mon.sessions))
	}
	cfgs, _ := s.ActiveConfigs(ctx)
	if len(cfgs) != 1 || cfgs[0].BrandName != "Tesla" {
		t.Fatalf("refused Start must not touch configs: %+v", cfgs)
	}
}
