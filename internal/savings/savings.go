// Package savings projects avoided consumption against the baseline
// trajectory. "Saved" is counterfactual minus actual, clamped at zero:
// overshooting the baseline is absorbed, never reported as negative.
package savings

import (
	"math"
	"time"

	"grasfrei/internal/aggregate"
	"grasfrei/internal/baseline"
	"grasfrei/internal/models"
)

// Saved holds the avoided quantities since the respective window anchors.
type Saved struct {
	Grams   float64
	Joints  float64
	Money   float64
	Minutes float64
}

// Project combines baseline rates with actual totals. quit carries the
// totals since the quit-date anchor, money the totals since the
// money-tracking anchor; hours and hoursMoney are the elapsed hours of
// the two windows.
func Project(r baseline.Rates, quit, money aggregate.Totals, hours, hoursMoney float64) Saved {
	hours = math.Max(0, finite(hours))
	hoursMoney = math.Max(0, finite(hoursMoney))

	expectedGrams := hoursMoney * r.GramsPerHour
	expectedJoints := hoursMoney * r.JointsPerHour
	expectedMinutes := hours * r.MinutesPerHour

	var s Saved
	s.Grams = clamp0(expectedGrams - money.Grams)
	s.Joints = clamp0(expectedJoints - money.Joints)
	s.Money = clamp0(s.Grams*r.PricePerGram - money.MoneySpent)
	s.Minutes = clamp0(expectedMinutes - quit.Minutes)
	return s
}

// Summary is the result of one full derivation pass. Pure; the caller
// re-invokes Snapshot on every tick or data change.
type Summary struct {
	Rates baseline.Rates
	Quit  aggregate.Totals
	Money aggregate.Totals
	Saved Saved
}

// Snapshot computes the summary of profile and logs as of now. The two
// windows are anchored independently: physical quantities at StartAt,
// money at MoneyStartAt (falling back to StartAt).
func Snapshot(p models.Profile, logs map[string]models.DayLog, now time.Time, loc *time.Location) Summary {
	rates := baseline.Resolve(p)

	quitAnchor := p.StartAt
	moneyAnchor := p.MoneyAnchor()

	quit := aggregate.Sum(logs, rates.GramsPerJoint, quitAnchor, loc)
	money := aggregate.Sum(logs, rates.GramsPerJoint, moneyAnchor, loc)

	hours := math.Max(0, now.Sub(quitAnchor).Hours())
	hoursMoney := math.Max(0, now.Sub(moneyAnchor).Hours())

	return Summary{
		Rates: rates,
		Quit:  quit,
		Money: money,
		Saved: Project(rates, quit, money, hours, hoursMoney),
	}
}

func clamp0(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
