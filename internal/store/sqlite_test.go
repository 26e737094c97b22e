package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"grasfrei/internal/models"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "grasfrei.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if got != nil {
		t.Fatalf("fresh store must have no profile, got %+v", got)
	}

	p := models.Profile{
		GramsPerDayBaseline: models.Float64(2),
		PricePerGram:        models.Float64(8.5),
		StartAt:             time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		Locale:              "de-DE",
	}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	got, err = s.LoadProfile(ctx)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if got == nil || *got.GramsPerDayBaseline != 2 || *got.PricePerGram != 8.5 {
		t.Fatalf("profile round trip mismatch: %+v", got)
	}
	if !got.StartAt.Equal(p.StartAt) {
		t.Fatalf("StartAt = %v, want %v", got.StartAt, p.StartAt)
	}
}

func TestUpsertDayLogMerges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertDayLog(ctx, "2025-03-10", models.DayLog{
		ConsumedGrams: models.Float64(0.5),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.UpsertDayLog(ctx, "2025-03-10", models.DayLog{
		SessionMinutes: models.Float64(20),
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	logs, err := s.LoadDayLogs(ctx)
	if err != nil {
		t.Fatalf("load day logs: %v", err)
	}
	log, ok := logs["2025-03-10"]
	if !ok {
		t.Fatalf("missing day log, got %v", logs)
	}
	if log.ConsumedGrams == nil || *log.ConsumedGrams != 0.5 {
		t.Fatalf("ConsumedGrams = %v, want 0.5 (must survive second patch)", log.ConsumedGrams)
	}
	if log.SessionMinutes == nil || *log.SessionMinutes != 20 {
		t.Fatalf("SessionMinutes = %v, want 20", log.SessionMinutes)
	}
}

func TestUpsertDayLogAppendsEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b"} {
		err := s.UpsertDayLog(ctx, "2025-03-10", models.DayLog{
			ConsumptionEntries: []models.ConsumptionEntry{{ID: id, CreatedAt: at, Method: models.MethodJoint}},
		})
		if err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	logs, err := s.LoadDayLogs(ctx)
	if err != nil {
		t.Fatalf("load day logs: %v", err)
	}
	if got := len(logs["2025-03-10"].ConsumptionEntries); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}

func TestAddDayLogAccumulates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddDayLog(ctx, "2025-03-10", models.DayLog{
		ConsumedGrams:      models.Float64(2),
		ConsumptionEntries: []models.ConsumptionEntry{{ID: "a"}},
	}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := s.AddDayLog(ctx, "2025-03-10", models.DayLog{
		ConsumedGrams:      models.Float64(0.5),
		ConsumptionEntries: []models.ConsumptionEntry{{ID: "b"}},
	}); err != nil {
		t.Fatalf("second add: %v", err)
	}

	logs, err := s.LoadDayLogs(ctx)
	if err != nil {
		t.Fatalf("load day logs: %v", err)
	}
	log := logs["2025-03-10"]
	if log.ConsumedGrams == nil || *log.ConsumedGrams != 2.5 {
		t.Fatalf("ConsumedGrams = %v, want 2.5", log.ConsumedGrams)
	}
	if len(log.ConsumptionEntries) != 2 {
		t.Fatalf("entries = %d, want 2", len(log.ConsumptionEntries))
	}
}

func TestAddDayLogKeepsOtherRepresentation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AddDayLog(ctx, "2025-03-10", models.DayLog{
		ConsumedJoints: models.Float64(4),
	}); err != nil {
		t.Fatalf("add joints: %v", err)
	}
	if err := s.AddDayLog(ctx, "2025-03-10", models.DayLog{
		ConsumedGrams: models.Float64(0.5),
	}); err != nil {
		t.Fatalf("add grams: %v", err)
	}

	logs, err := s.LoadDayLogs(ctx)
	if err != nil {
		t.Fatalf("load day logs: %v", err)
	}
	log := logs["2025-03-10"]
	if log.ConsumedJoints == nil || *log.ConsumedJoints != 4 {
		t.Fatalf("ConsumedJoints = %v, want 4 preserved", log.ConsumedJoints)
	}
	if log.ConsumedGrams == nil || *log.ConsumedGrams != 0.5 {
		t.Fatalf("ConsumedGrams = %v, want 0.5", log.ConsumedGrams)
	}
}

func TestDashboardRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stats, err := s.LoadDashboard(ctx)
	if err != nil {
		t.Fatalf("load dashboard: %v", err)
	}
	if stats != (models.DashboardStats{}) {
		t.Fatalf("fresh dashboard must be zero, got %+v", stats)
	}

	lastUse := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	want := models.DashboardStats{
		LastUseAt:        &lastUse,
		SmokeFreeSeconds: 7200,
		MoneySavedEUR:    0.83,
		CravingPct:       70,
		WithdrawalPct:    80,
		SleepPct:         60,
	}
	if err := s.SaveDashboard(ctx, want); err != nil {
		t.Fatalf("save dashboard: %v", err)
	}
	stats, err = s.LoadDashboard(ctx)
	if err != nil {
		t.Fatalf("load dashboard: %v", err)
	}
	if stats.SmokeFreeSeconds != 7200 || stats.MoneySavedEUR != 0.83 || stats.CravingPct != 70 {
		t.Fatalf("dashboard round trip mismatch: %+v", stats)
	}
	if stats.LastUseAt == nil || !stats.LastUseAt.Equal(lastUse) {
		t.Fatalf("LastUseAt = %v, want %v", stats.LastUseAt, lastUse)
	}
}
