// Package aggregate reduces date-keyed day logs into cumulative totals.
package aggregate

import (
	"math"
	"time"

	"grasfrei/internal/models"
)

// DateKeyLayout is the calendar-date key format of the day-log mapping.
const DateKeyLayout = "2006-01-02"

// Totals is the sum over all day logs inside a time window.
type Totals struct {
	Grams      float64
	Joints     float64
	Minutes    float64
	MoneySpent float64
}

// Sum totals every day log whose date still overlaps the window starting
// at cutoff: a day counts while its end of day (23:59:59.999 in loc) is
// not before cutoff. Grams and joints are mutually derived through
// gramsPerJoint, never summed twice. Entries with an unparseable date key
// are skipped.
func Sum(logs map[string]models.DayLog, gramsPerJoint float64, cutoff time.Time, loc *time.Location) Totals {
	if loc == nil {
		loc = time.Local
	}
	var t Totals
	for key, log := range logs {
		day, err := time.ParseInLocation(DateKeyLayout, key, loc)
		if err != nil {
			continue
		}
		// Built from calendar components so 23- and 25-hour days
		// still end at 23:59:59.999 local.
		endOfDay := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		if endOfDay.Before(cutoff) {
			continue
		}
		t.Grams += entryGrams(log, gramsPerJoint)
		t.Joints += entryJoints(log, gramsPerJoint)
		if log.SessionMinutes != nil {
			t.Minutes += finite(*log.SessionMinutes)
		}
		if log.MoneySpentEUR != nil {
			t.MoneySpent += finite(*log.MoneySpentEUR)
		}
	}
	return t
}

func entryGrams(log models.DayLog, gramsPerJoint float64) float64 {
	switch {
	case log.ConsumedGrams != nil:
		return finite(*log.ConsumedGrams)
	case log.ConsumedJoints != nil:
		return finite(*log.ConsumedJoints * gramsPerJoint)
	}
	return 0
}

func entryJoints(log models.DayLog, gramsPerJoint float64) float64 {
	switch {
	case log.ConsumedJoints != nil:
		return finite(*log.ConsumedJoints)
	case log.ConsumedGrams != nil && gramsPerJoint > 0:
		return finite(*log.ConsumedGrams / gramsPerJoint)
	}
	return 0
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
