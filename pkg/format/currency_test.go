package format

import (
	"strings"
	"testing"
)

// normalizeSpaces replaces the no-break spaces some locales use for grouping.
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func TestNewFormatterInvalidLocale(t *testing.T) {
	if _, err := NewFormatter("not a locale!"); err == nil {
		t.Fatal("expected error for invalid locale")
	}
}

func TestCurrencyCzech(t *testing.T) {
	f, err := NewFormatter("")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Small amount", 400, "400 Kč"},
		{"Thousands", 676000, "676 000 Kč"},
		{"Millions", 2185200, "2 185 200 Kč"},
		{"Zero", 0, "0 Kč"},
		{"Fraction rounds", 99999.5, "100 000 Kč"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeSpaces(f.Currency(tt.amount))
			if result != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestCurrencyEnglish(t *testing.T) {
	f, err := NewFormatter("en")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if result := f.Currency(1800000); result != "1,800,000 Kč" {
		t.Errorf("Currency(1800000) = %q, expected %q", result, "1,800,000 Kč")
	}
}

func TestDailyRateAndPercent(t *testing.T) {
	f, err := NewFormatter("cs")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if result := normalizeSpaces(f.DailyRate(400)); result != "400 Kč/den" {
		t.Errorf("DailyRate(400) = %q, expected %q", result, "400 Kč/den")
	}
	if result := f.Percent(29); result != "29%" {
		t.Errorf("Percent(29) = %q, expected %q", result, "29%")
	}
}
