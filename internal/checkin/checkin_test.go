package checkin

import (
	"math"
	"testing"
	"time"

	"grasfrei/internal/models"
)

var now = time.Date(2025, 3, 11, 14, 30, 0, 0, time.UTC)

func TestNormalizeUseDayWithoutTime(t *testing.T) {
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: true}
	patch := Normalize(data, models.DashboardStats{}, Options{Now: now})
	if patch.LastUseAt == nil || !patch.LastUseAt.Equal(now) {
		t.Fatalf("LastUseAt = %v, want %v", patch.LastUseAt, now)
	}
	if patch.SmokeFreeSeconds != 0 {
		t.Fatalf("SmokeFreeSeconds = %d, want 0", patch.SmokeFreeSeconds)
	}
}

func TestNormalizeUseDayWithTime(t *testing.T) {
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: true, Time: "09:15"}
	patch := Normalize(data, models.DashboardStats{}, Options{Now: now})
	want := time.Date(2025, 3, 11, 9, 15, 0, 0, time.UTC)
	if patch.LastUseAt == nil || !patch.LastUseAt.Equal(want) {
		t.Fatalf("LastUseAt = %v, want %v", patch.LastUseAt, want)
	}
}

func TestNormalizeUseDayMalformedTimeFallsBackToNow(t *testing.T) {
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: true, Time: "25:99"}
	patch := Normalize(data, models.DashboardStats{}, Options{Now: now})
	if patch.LastUseAt == nil || !patch.LastUseAt.Equal(now) {
		t.Fatalf("LastUseAt = %v, want now fallback", patch.LastUseAt)
	}
}

func TestNormalizeUseDayCarriesPauseFields(t *testing.T) {
	prior := models.DashboardStats{
		MoneySavedEUR: 42.5,
		WithdrawalPct: 70,
		SleepPct:      60,
	}
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: true}
	patch := Normalize(data, prior, Options{Now: now, PricePerGramEUR: 10, BaselineDailyUseGrams: 1})
	if patch.MoneySavedEUR != 42.5 || patch.WithdrawalPct != 70 || patch.SleepPct != 60 {
		t.Fatalf("use day must carry money/withdrawal/sleep, got %+v", patch)
	}
}

func TestNormalizePauseDayMoneyAccrual(t *testing.T) {
	lastUse := now.Add(-2 * time.Hour)
	prior := models.DashboardStats{LastUseAt: &lastUse}
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: false}
	patch := Normalize(data, prior, Options{
		Now:                   now,
		PricePerGramEUR:       10,
		BaselineDailyUseGrams: 1,
	})
	if patch.SmokeFreeSeconds != 7200 {
		t.Fatalf("SmokeFreeSeconds = %d, want 7200", patch.SmokeFreeSeconds)
	}
	if patch.MoneySavedEUR != 0.83 {
		t.Fatalf("MoneySavedEUR = %v, want 0.83", patch.MoneySavedEUR)
	}
	if patch.LastUseAt == nil || !patch.LastUseAt.Equal(lastUse) {
		t.Fatalf("pause day must carry LastUseAt, got %v", patch.LastUseAt)
	}
}

func TestNormalizePauseDayWithoutLastUse(t *testing.T) {
	prior := models.DashboardStats{SmokeFreeSeconds: 123, MoneySavedEUR: 5}
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: false}
	patch := Normalize(data, prior, Options{Now: now, PricePerGramEUR: 10, BaselineDailyUseGrams: 1})
	if patch.SmokeFreeSeconds != 123 {
		t.Fatalf("SmokeFreeSeconds = %d, want carried 123", patch.SmokeFreeSeconds)
	}
	if patch.MoneySavedEUR != 5 {
		t.Fatalf("MoneySavedEUR = %v, want carried 5", patch.MoneySavedEUR)
	}
}

func TestNormalizeWithdrawalAndSleep(t *testing.T) {
	lastUse := now.Add(-time.Hour)
	prior := models.DashboardStats{LastUseAt: &lastUse, WithdrawalPct: 50, SleepPct: 50}
	data := models.DailyCheckinData{
		DateISO:   "2025-03-11",
		UsedToday: false,
		Pauses: []models.CheckinEntry{{
			Schlafstoerung: models.Float64(4),
			Reizbarkeit:    models.Float64(2),
		}},
	}
	patch := Normalize(data, prior, Options{Now: now})
	// mean(4,2)=3 -> 100-30
	if patch.WithdrawalPct != 70 {
		t.Fatalf("WithdrawalPct = %v, want 70", patch.WithdrawalPct)
	}
	if patch.SleepPct != 60 {
		t.Fatalf("SleepPct = %v, want 60", patch.SleepPct)
	}
}

func TestNormalizePauseDayNoSymptomsCarriesPrior(t *testing.T) {
	lastUse := now.Add(-time.Hour)
	prior := models.DashboardStats{LastUseAt: &lastUse, WithdrawalPct: 55, SleepPct: 66}
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: false}
	patch := Normalize(data, prior, Options{Now: now})
	if patch.WithdrawalPct != 55 || patch.SleepPct != 66 {
		t.Fatalf("missing symptoms must carry prior values, got %+v", patch)
	}
}

func TestNormalizeCravingPct(t *testing.T) {
	cases := []struct {
		name string
		data models.DailyCheckinData
		want float64
	}{
		{"top level", models.DailyCheckinData{UsedToday: true, Cravings0to10: models.Float64(3)}, 70},
		{"from uses entry", models.DailyCheckinData{UsedToday: true, Uses: []models.CheckinEntry{{Craving0to10: models.Float64(10)}}}, 0},
		{"from pauses entry", models.DailyCheckinData{Pauses: []models.CheckinEntry{{Craving0to10: models.Float64(1)}}}, 90},
		{"absent", models.DailyCheckinData{UsedToday: true}, 100},
		{"out of range clamps", models.DailyCheckinData{UsedToday: true, Cravings0to10: models.Float64(-5)}, 100},
	}
	for _, tc := range cases {
		patch := Normalize(tc.data, models.DashboardStats{}, Options{Now: now})
		if patch.CravingPct != tc.want {
			t.Errorf("%s: CravingPct = %v, want %v", tc.name, patch.CravingPct, tc.want)
		}
	}
}

func TestNormalizeZeroValuesDoNotPanic(t *testing.T) {
	patch := Normalize(models.DailyCheckinData{}, models.DashboardStats{}, Options{})
	if patch.SmokeFreeSeconds < 0 {
		t.Fatalf("SmokeFreeSeconds must be non-negative, got %d", patch.SmokeFreeSeconds)
	}
	if math.IsNaN(patch.MoneySavedEUR) {
		t.Fatal("MoneySavedEUR must not be NaN")
	}
}

func TestBuildDayLogPatchUseDay(t *testing.T) {
	data := models.DailyCheckinData{
		DateISO:     "2025-03-11",
		UsedToday:   true,
		Time:        "09:15",
		AmountGrams: models.Float64(0.8),
	}
	patch, ok := BuildDayLogPatch(data, Options{Now: now})
	if !ok {
		t.Fatal("use day must produce a log patch")
	}
	if patch.ConsumedGrams == nil || *patch.ConsumedGrams != 0.8 {
		t.Fatalf("ConsumedGrams = %v, want 0.8", patch.ConsumedGrams)
	}
	want := time.Date(2025, 3, 11, 9, 15, 0, 0, time.UTC)
	if patch.LastConsumptionAt == nil || !patch.LastConsumptionAt.Equal(want) {
		t.Fatalf("LastConsumptionAt = %v, want %v", patch.LastConsumptionAt, want)
	}
	if len(patch.ConsumptionEntries) != 1 || patch.ConsumptionEntries[0].ID == "" {
		t.Fatalf("expected one entry with an id, got %+v", patch.ConsumptionEntries)
	}
}

func TestBuildDayLogPatchWithoutAmountLeavesTotalsAlone(t *testing.T) {
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: true}
	patch, ok := BuildDayLogPatch(data, Options{Now: now})
	if !ok {
		t.Fatal("use day must produce a log patch")
	}
	if patch.ConsumedGrams != nil {
		t.Fatalf("ConsumedGrams = %v, want nil when no amount was submitted", *patch.ConsumedGrams)
	}
	if len(patch.ConsumptionEntries) != 1 || patch.ConsumptionEntries[0].Grams != nil {
		t.Fatalf("entry must carry no grams, got %+v", patch.ConsumptionEntries)
	}

	base := models.DayLog{ConsumedGrams: models.Float64(2)}
	merged := models.MergeDayLog(base, patch)
	if merged.ConsumedGrams == nil || *merged.ConsumedGrams != 2 {
		t.Fatalf("merged ConsumedGrams = %v, want 2 preserved", merged.ConsumedGrams)
	}
}

func TestBuildDayLogPatchPauseDay(t *testing.T) {
	data := models.DailyCheckinData{DateISO: "2025-03-11", UsedToday: false}
	if _, ok := BuildDayLogPatch(data, Options{Now: now}); ok {
		t.Fatal("pause day must not produce a log patch")
	}
}
