package bot

import (
	"strings"
	"testing"

	"grasfrei/internal/models"
	"grasfrei/internal/savings"
)

func TestParseNumberAcceptsCommaDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"1,5", 1.5},
		{" 8 ", 8},
	}
	for _, tc := range cases {
		got, err := parseNumber(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("parseNumber(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := parseNumber("viel"); err == nil {
		t.Fatal("parseNumber must reject non-numeric input")
	}
}

func TestRenderDashboard(t *testing.T) {
	sum := savings.Summary{
		Saved: savings.Saved{Grams: 12, Joints: 48, Money: 96, Minutes: 125},
	}
	stats := models.DashboardStats{SmokeFreeSeconds: 7200, CravingPct: 70}
	out := renderDashboard(sum, stats, "de-DE")
	for _, want := range []string{"12,0", "48", "€", "02:05", "70%"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard %q missing %q", out, want)
		}
	}
}
