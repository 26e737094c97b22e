package format

import (
	"math"
	"strings"
	"testing"
)

func TestGramsFractionDigits(t *testing.T) {
	cases := []struct {
		v      float64
		locale string
		want   string
	}{
		{0.5, "de-DE", "0,500"},
		{5, "de-DE", "5,0"},
		{0.5, "en-US", "0.500"},
		{5, "en-US", "5.0"},
		{0, "de-DE", "0,000"},
	}
	for _, tc := range cases {
		if got := Grams(tc.v, tc.locale); got != tc.want {
			t.Errorf("Grams(%v, %q) = %q, want %q", tc.v, tc.locale, got, tc.want)
		}
	}
}

func TestJointsFractionDigits(t *testing.T) {
	cases := []struct {
		v      float64
		locale string
		want   string
	}{
		{9.5, "en-US", "9.5"},
		{3.14, "en-US", "3.1"},
		{12.6, "en-US", "13"},
		{0, "de-DE", "0,0"},
	}
	for _, tc := range cases {
		if got := Joints(tc.v, tc.locale); got != tc.want {
			t.Errorf("Joints(%v, %q) = %q, want %q", tc.v, tc.locale, got, tc.want)
		}
	}
}

func TestCurrencyHasEuroSymbol(t *testing.T) {
	got := Currency(12.345, "de-DE")
	if !strings.Contains(got, "€") {
		t.Fatalf("Currency = %q, want euro symbol", got)
	}
	if strings.Contains(got, "12.345") || strings.Contains(got, "12,345") {
		t.Fatalf("Currency = %q, want at most 2 fraction digits", got)
	}
}

func TestCurrencyNonFinite(t *testing.T) {
	if got := Currency(math.NaN(), "de-DE"); !strings.Contains(got, "0") {
		t.Fatalf("Currency(NaN) = %q, want zero amount", got)
	}
}

func TestMinutes(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0, "00:00"},
		{59.9, "00:59"},
		{60, "01:00"},
		{125, "02:05"},
		{-3, "00:00"},
		{math.NaN(), "00:00"},
	}
	for _, tc := range cases {
		if got := Minutes(tc.v); got != tc.want {
			t.Errorf("Minutes(%v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestFallbackLocale(t *testing.T) {
	if got := Grams(0.5, "not a locale"); got != "0,500" {
		t.Fatalf("Grams with bad locale = %q, want de-DE fallback 0,500", got)
	}
}

func TestProgressModulo(t *testing.T) {
	cases := []struct {
		current, step, want float64
	}{
		{0.5, 1, 0.5},
		{2.5, 1, 0.5},
		{-0.25, 1, 0.75},
		{3, 1, 0},
		{1.2, 0, 0},
		{1.2, -1, 0},
		{math.NaN(), 1, 0},
		{1, math.Inf(1), 0},
	}
	for _, tc := range cases {
		if got := ProgressModulo(tc.current, tc.step); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ProgressModulo(%v, %v) = %v, want %v", tc.current, tc.step, got, tc.want)
		}
	}
}

func TestProgressModuloIdempotentUnderStepMultiples(t *testing.T) {
	for _, k := range []float64{-3, -1, 0, 1, 2, 10} {
		base := ProgressModulo(0.4, 0.25)
		shifted := ProgressModulo(0.4+k*0.25, 0.25)
		if math.Abs(base-shifted) > 1e-9 {
			t.Fatalf("k=%v: %v != %v", k, shifted, base)
		}
	}
}
