// Package baseline derives consistent daily-use rates from a partially
// specified profile. Missing data degrades to zero rates, never to an error.
package baseline

import (
	"math"

	"grasfrei/internal/models"
)

// DefaultGramsPerJoint is used whenever the profile does not pin down its
// own grams/joint ratio.
const DefaultGramsPerJoint = 0.25

// Rates is the resolved canonical view of a profile's consumption baseline.
type Rates struct {
	GramsPerDay    float64
	JointsPerDay   float64
	GramsPerHour   float64
	JointsPerHour  float64
	PricePerGram   float64
	MoneyPerHour   float64
	MinutesPerHour float64
	GramsPerJoint  float64
}

// Resolve computes the canonical rates for a profile. The dual
// grams/joints and price/cost representations are collapsed here; callers
// must never read the raw profile fields for rate math.
func Resolve(p models.Profile) Rates {
	var r Rates

	r.GramsPerJoint = DefaultGramsPerJoint
	if p.GramsPerDayBaseline != nil && p.JointsPerDayBaseline != nil {
		ratio := *p.GramsPerDayBaseline / math.Max(1, *p.JointsPerDayBaseline)
		if !math.IsNaN(ratio) && !math.IsInf(ratio, 0) && ratio > 0 {
			r.GramsPerJoint = ratio
		}
	}

	switch {
	case p.GramsPerDayBaseline != nil:
		r.GramsPerDay = *p.GramsPerDayBaseline
	case p.JointsPerDayBaseline != nil:
		r.GramsPerDay = *p.JointsPerDayBaseline * r.GramsPerJoint
	}

	switch {
	case p.JointsPerDayBaseline != nil:
		r.JointsPerDay = *p.JointsPerDayBaseline
	case p.GramsPerDayBaseline != nil && r.GramsPerJoint > 0:
		r.JointsPerDay = *p.GramsPerDayBaseline / r.GramsPerJoint
	}

	// The cost-per-joint fallback divides by the fixed default constant,
	// not the resolved ratio.
	switch {
	case p.PricePerGram != nil:
		r.PricePerGram = *p.PricePerGram
	case p.CostPerJoint != nil:
		r.PricePerGram = *p.CostPerJoint / DefaultGramsPerJoint
	}

	r.GramsPerHour = r.GramsPerDay / 24
	r.JointsPerHour = r.JointsPerDay / 24
	r.MoneyPerHour = r.GramsPerHour * r.PricePerGram
	if p.AvgSessionMinutes != nil {
		r.MinutesPerHour = *p.AvgSessionMinutes * r.JointsPerHour
	}

	return sanitize(r)
}

// sanitize turns non-finite rates into zero so downstream math stays
// well defined whatever the profile held.
func sanitize(r Rates) Rates {
	for _, f := range []*float64{
		&r.GramsPerDay, &r.JointsPerDay, &r.GramsPerHour, &r.JointsPerHour,
		&r.PricePerGram, &r.MoneyPerHour, &r.MinutesPerHour, &r.GramsPerJoint,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return r
}
