// Package models defines the shared data structures of the tracker.
package models

import (
	"time"
)

// ConsumptionMethod is how a logged consumption happened.
type ConsumptionMethod string

const (
	MethodJoint  ConsumptionMethod = "joint"
	MethodVape   ConsumptionMethod = "vape"
	MethodBong   ConsumptionMethod = "bong"
	MethodEdible ConsumptionMethod = "edible"
	MethodOther  ConsumptionMethod = "other"
)

// PaidByUser records whether the user paid for a consumption themselves.
type PaidByUser string

const (
	PaidYes     PaidByUser = "yes"
	PaidNo      PaidByUser = "no"
	PaidUnknown PaidByUser = "unknown"
)

// Profile is the per-user configuration. Most fields are optional; the
// baseline resolver owns the fallback chain between the dual
// grams/joints and price/cost representations.
type Profile struct {
	GramsPerDayBaseline  *float64   `json:"gramsPerDayBaseline,omitempty"`
	JointsPerDayBaseline *float64   `json:"jointsPerDayBaseline,omitempty"`
	PricePerGram         *float64   `json:"pricePerGram,omitempty"`
	CostPerJoint         *float64   `json:"costPerJoint,omitempty"`
	AvgSessionMinutes    *float64   `json:"avgSessionMinutes,omitempty"`
	StartAt              time.Time  `json:"startAt"`
	MoneyStartAt         *time.Time `json:"moneyStartAt,omitempty"`
	Locale               string     `json:"locale,omitempty"`
}

// MoneyAnchor returns the start of the money-tracking window. It is
// independent from StartAt so the user can reset one without the other.
func (p Profile) MoneyAnchor() time.Time {
	if p.MoneyStartAt != nil {
		return *p.MoneyStartAt
	}
	return p.StartAt
}

// ConsumptionEntry is one logged consumption event. Entries are
// append-only; aggregation reads them but never mutates them.
type ConsumptionEntry struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"createdAt"`
	Grams          *float64          `json:"grams,omitempty"`
	Joints         *float64          `json:"joints,omitempty"`
	SessionMinutes *float64          `json:"sessionMinutes,omitempty"`
	Method         ConsumptionMethod `json:"method,omitempty"`
	PaidByUser     PaidByUser        `json:"paidByUser,omitempty"`
	AmountSpent    *float64          `json:"amountSpent,omitempty"`
}

// DayLog accumulates consumption for one calendar date (key "2006-01-02").
// At most one of ConsumedGrams/ConsumedJoints is authoritative per entry;
// the other is derivable via the resolved grams-per-joint ratio.
type DayLog struct {
	ConsumedGrams      *float64           `json:"consumedGrams,omitempty"`
	ConsumedJoints     *float64           `json:"consumedJoints,omitempty"`
	SessionMinutes     *float64           `json:"sessionMinutes,omitempty"`
	MoneySpentEUR      *float64           `json:"moneySpentEUR,omitempty"`
	LastConsumptionAt  *time.Time         `json:"lastConsumptionAt,omitempty"`
	ConsumptionEntries []ConsumptionEntry `json:"consumptionEntries,omitempty"`
	Notes              *string            `json:"notes,omitempty"`
}

// MergeDayLog applies patch onto base with patch-merge semantics: fields
// present in the patch win, absent fields are preserved, consumption
// entries append. Day logs are never deleted, only accumulated.
func MergeDayLog(base, patch DayLog) DayLog {
	out := base
	if patch.ConsumedGrams != nil {
		out.ConsumedGrams = patch.ConsumedGrams
	}
	if patch.ConsumedJoints != nil {
		out.ConsumedJoints = patch.ConsumedJoints
	}
	if patch.SessionMinutes != nil {
		out.SessionMinutes = patch.SessionMinutes
	}
	if patch.MoneySpentEUR != nil {
		out.MoneySpentEUR = patch.MoneySpentEUR
	}
	if patch.LastConsumptionAt != nil {
		out.LastConsumptionAt = patch.LastConsumptionAt
	}
	if len(patch.ConsumptionEntries) > 0 {
		entries := make([]ConsumptionEntry, 0, len(base.ConsumptionEntries)+len(patch.ConsumptionEntries))
		entries = append(entries, base.ConsumptionEntries...)
		entries = append(entries, patch.ConsumptionEntries...)
		out.ConsumptionEntries = entries
	}
	if patch.Notes != nil {
		out.Notes = patch.Notes
	}
	return out
}

// AccumulateDayLog adds delta onto base: numeric fields sum, consumption
// entries append, timestamps and notes replace when present. Used for
// quick logs, where each submission is an increment rather than a total.
func AccumulateDayLog(base, delta DayLog) DayLog {
	out := base
	if delta.ConsumedGrams != nil {
		out.ConsumedGrams = Float64(*delta.ConsumedGrams + floatOrZero(base.ConsumedGrams))
	}
	if delta.ConsumedJoints != nil {
		out.ConsumedJoints = Float64(*delta.ConsumedJoints + floatOrZero(base.ConsumedJoints))
	}
	if delta.SessionMinutes != nil {
		out.SessionMinutes = Float64(*delta.SessionMinutes + floatOrZero(base.SessionMinutes))
	}
	if delta.MoneySpentEUR != nil {
		out.MoneySpentEUR = Float64(*delta.MoneySpentEUR + floatOrZero(base.MoneySpentEUR))
	}
	if delta.LastConsumptionAt != nil {
		out.LastConsumptionAt = delta.LastConsumptionAt
	}
	if len(delta.ConsumptionEntries) > 0 {
		entries := make([]ConsumptionEntry, 0, len(base.ConsumptionEntries)+len(delta.ConsumptionEntries))
		entries = append(entries, base.ConsumptionEntries...)
		entries = append(entries, delta.ConsumptionEntries...)
		out.ConsumptionEntries = entries
	}
	if delta.Notes != nil {
		out.Notes = delta.Notes
	}
	return out
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// CheckinEntry is one use/pause detail row inside a daily check-in.
// Symptom scores run 0-10 (higher = worse); field names follow the
// German form labels.
type CheckinEntry struct {
	Time           string   `json:"time,omitempty"` // "HH:MM"
	Grams          *float64 `json:"grams,omitempty"`
	Craving0to10   *float64 `json:"craving,omitempty"`
	Schlafstoerung *float64 `json:"schlafstoerung,omitempty"`
	Reizbarkeit    *float64 `json:"reizbarkeit,omitempty"`
	Unruhe         *float64 `json:"unruhe,omitempty"`
	Appetit        *float64 `json:"appetit,omitempty"`
	Schwitzen      *float64 `json:"schwitzen,omitempty"`
}

// DailyCheckinData is one check-in submission. It is not persisted
// itself; only its derived effects (day-log patch, dashboard patch) are.
type DailyCheckinData struct {
	DateISO       string         `json:"dateISO"` // "2006-01-02"
	UsedToday     bool           `json:"usedToday"`
	Time          string         `json:"time,omitempty"` // "HH:MM", use mode only
	AmountGrams   *float64       `json:"amountGrams,omitempty"`
	Cravings0to10 *float64       `json:"cravings,omitempty"`
	SleepHours    *float64       `json:"sleepHours,omitempty"`
	Uses          []CheckinEntry `json:"uses,omitempty"`
	Pauses        []CheckinEntry `json:"pauses,omitempty"`
}

// DashboardStats is the running summary shown on the dashboard. It is
// mutated only through patches produced by the check-in normalizer.
// Percentage fields are 0-100, higher = better.
type DashboardStats struct {
	LastUseAt        *time.Time `json:"lastUseAt,omitempty"`
	SmokeFreeSeconds int64      `json:"smokeFreeSeconds"`
	MoneySavedEUR    float64    `json:"moneySavedEUR"`
	CravingPct       float64    `json:"cravingPct"`
	WithdrawalPct    float64    `json:"withdrawalPct"`
	SleepPct         float64    `json:"sleepPct"`
}

// DashboardPatch is the full replacement state produced by one check-in.
// Every field is populated: carried-over values are copied from the prior
// stats so applying a patch is a plain assignment.
type DashboardPatch struct {
	LastUseAt        *time.Time
	SmokeFreeSeconds int64
	MoneySavedEUR    float64
	CravingPct       float64
	WithdrawalPct    float64
	SleepPct         float64
}

// Apply returns the stats after the patch.
func (p DashboardPatch) Apply() DashboardStats {
	return DashboardStats{
		LastUseAt:        p.LastUseAt,
		SmokeFreeSeconds: p.SmokeFreeSeconds,
		MoneySavedEUR:    p.MoneySavedEUR,
		CravingPct:       p.CravingPct,
		WithdrawalPct:    p.WithdrawalPct,
		SleepPct:         p.SleepPct,
	}
}

// Float64 returns a pointer to v. Convenience for the optional fields above.
func Float64(v float64) *float64 { return &v }
