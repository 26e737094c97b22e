// Package checkin converts daily check-in submissions into a normalized
// day-log patch and a dashboard patch. Every branch has a defined
// default; malformed input degrades, it never errors.
package checkin

import (
	"math"
	"time"

	"github.com/google/uuid"

	"grasfrei/internal/models"
)

// Options carries the resolved context a check-in is normalized against.
type Options struct {
	PricePerGramEUR       float64
	BaselineDailyUseGrams float64
	Now                   time.Time
}

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"
)

// Normalize derives the dashboard patch for one check-in. Exactly two
// modes exist, selected by UsedToday; fields not touched by the active
// mode are carried over from the prior stats.
func Normalize(data models.DailyCheckinData, prior models.DashboardStats, opts Options) models.DashboardPatch {
	patch := models.DashboardPatch{
		LastUseAt:        prior.LastUseAt,
		SmokeFreeSeconds: prior.SmokeFreeSeconds,
		MoneySavedEUR:    prior.MoneySavedEUR,
		WithdrawalPct:    prior.WithdrawalPct,
		SleepPct:         prior.SleepPct,
	}

	if data.UsedToday {
		lastUse := useTime(data, opts.Now)
		patch.LastUseAt = &lastUse
		patch.SmokeFreeSeconds = 0
	} else {
		if prior.LastUseAt != nil {
			secs := int64(math.Floor(opts.Now.Sub(*prior.LastUseAt).Seconds()))
			if secs < 0 {
				secs = 0
			}
			patch.SmokeFreeSeconds = secs
			accrued := finite(opts.BaselineDailyUseGrams * opts.PricePerGramEUR * (float64(secs) / 86400))
			patch.MoneySavedEUR = round2(prior.MoneySavedEUR + accrued)
		}
		if scores := symptomScores(data); len(scores) > 0 {
			patch.WithdrawalPct = clampPct(100 - 10*mean(scores))
		}
		if v, ok := symptomField(data, func(e models.CheckinEntry) *float64 { return e.Schlafstoerung }); ok {
			patch.SleepPct = clampPct(100 - 10*v)
		}
	}

	patch.CravingPct = clampPct(100 - 10*cravingValue(data))
	return patch
}

// BuildDayLogPatch derives the day-log mutation of a check-in. Pause days
// touch no log; the second return value reports whether a patch applies.
func BuildDayLogPatch(data models.DailyCheckinData, opts Options) (models.DayLog, bool) {
	if !data.UsedToday {
		return models.DayLog{}, false
	}
	at := useTime(data, opts.Now)
	entry := models.ConsumptionEntry{
		ID:         uuid.NewString(),
		CreatedAt:  at,
		Method:     models.MethodJoint,
		PaidByUser: models.PaidUnknown,
	}
	patch := models.DayLog{
		LastConsumptionAt:  &at,
		ConsumptionEntries: []models.ConsumptionEntry{entry},
	}
	// AmountGrams answers "how much today?", so it is the whole-day total
	// and overrides quick-log accumulation for the date. A check-in without
	// an amount records the use event and leaves the totals untouched.
	if data.AmountGrams != nil {
		grams := finite(*data.AmountGrams)
		patch.ConsumptionEntries[0].Grams = models.Float64(grams)
		patch.ConsumedGrams = models.Float64(grams)
	}
	return patch, true
}

// useTime combines the submitted HH:MM with the check-in date. Malformed
// or missing values fall back to now.
func useTime(data models.DailyCheckinData, now time.Time) time.Time {
	if data.Time == "" {
		return now
	}
	clock, err := time.Parse(timeLayout, data.Time)
	if err != nil {
		return now
	}
	day, err := time.ParseInLocation(dateLayout, data.DateISO, now.Location())
	if err != nil {
		return now
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
}

// cravingValue reads the craving score: top-level field first, then the
// first detail entry, else 0.
func cravingValue(data models.DailyCheckinData) float64 {
	if data.Cravings0to10 != nil {
		return finite(*data.Cravings0to10)
	}
	for _, entries := range [][]models.CheckinEntry{data.Uses, data.Pauses} {
		if len(entries) > 0 && entries[0].Craving0to10 != nil {
			return finite(*entries[0].Craving0to10)
		}
	}
	return 0
}

// symptomScores collects the symptom fields present on the first detail
// entry (pauses take precedence over uses).
func symptomScores(data models.DailyCheckinData) []float64 {
	entry, ok := firstEntry(data)
	if !ok {
		return nil
	}
	var scores []float64
	for _, f := range []*float64{entry.Schlafstoerung, entry.Reizbarkeit, entry.Unruhe, entry.Appetit, entry.Schwitzen} {
		if f != nil {
			scores = append(scores, finite(*f))
		}
	}
	return scores
}

func symptomField(data models.DailyCheckinData, pick func(models.CheckinEntry) *float64) (float64, bool) {
	entry, ok := firstEntry(data)
	if !ok {
		return 0, false
	}
	if f := pick(entry); f != nil {
		return finite(*f), true
	}
	return 0, false
}

func firstEntry(data models.DailyCheckinData) (models.CheckinEntry, bool) {
	if len(data.Pauses) > 0 {
		return data.Pauses[0], true
	}
	if len(data.Uses) > 0 {
		return data.Uses[0], true
	}
	return models.CheckinEntry{}, false
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clampPct(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
