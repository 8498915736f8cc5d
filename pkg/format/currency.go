// Package format renders coverage amounts for display.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/coverage-calculator/pkg/constants"
	"github.com/iwvelando/coverage-calculator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders whole currency amounts with the grouping rules of a locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "cs" or "en".
// An empty locale selects constants.DefaultLocale.
func NewFormatter(locale string) (*Formatter, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = constants.DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag)}, nil
}

// Number returns the amount rounded to a whole unit with locale grouping (e.g. "676 000").
func (f *Formatter) Number(amount float64) string {
	return f.printer.Sprintf("%d", int64(mathutil.Round(amount)))
}

// Currency returns the amount followed by the currency symbol (e.g. "676 000 Kč").
func (f *Formatter) Currency(amount float64) string {
	return f.Number(amount) + " " + constants.CurrencySymbol
}

// DailyRate returns a per-day amount (e.g. "400 Kč/den").
func (f *Formatter) DailyRate(amount float64) string {
	return f.Currency(amount) + constants.DailySuffix
}

// Percent returns a whole percentage (e.g. "29%").
func (f *Formatter) Percent(value float64) string {
	return f.Number(value) + "%"
}
