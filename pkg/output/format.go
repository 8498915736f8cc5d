// Package output provides utilities for formatting and displaying coverage summaries.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/iwvelando/coverage-calculator/internal/summary"
	"github.com/iwvelando/coverage-calculator/pkg/format"
)

const labelWidth = 28

// PrettyFormat writes a human-readable summary for every person.
func PrettyFormat(w io.Writer, summaries []summary.Summary, f *format.Formatter) error {
	ew := &errWriter{w: w}
	for n, s := range summaries {
		badge := ""
		if s.OSVC {
			badge = " [OSVČ]"
		}
		ew.printf("--- %s%s ---\n", s.Name, badge)

		for i, level := range s.Input.PensionLevels {
			ew.printf("%-*s | %s (%s čisté mzdy)\n", labelWidth,
				fmt.Sprintf("Invalidní důchod %d. stupně", i+1),
				f.Currency(level), f.Percent(s.PensionPercents[i]))
		}
		ew.printf("\n")

		r := s.Results
		ew.printf("%-*s | %s\n", labelWidth, "Smrt", f.Currency(r.Death))
		for i, inv := range r.Invalidity {
			ew.printf("%-*s | %s\n", labelWidth, fmt.Sprintf("Invalidita %d. stupně", i+1), f.Currency(inv.Total))
			ew.printf("    Očekávaný příjem: %s\n", f.Currency(inv.ExpectedIncome))
			ew.printf("    Konstantní: %s\n", f.Currency(inv.Constant))
			ew.printf("    Klesající: %s\n", f.Currency(inv.Variable))
		}
		ew.printf("%-*s | %s\n", labelWidth, "Trvalé následky úrazu", f.Currency(r.PermanentInjury))
		ew.printf("%-*s | %s\n", labelWidth, "Pracovní neschopnost", f.DailyRate(r.WorkDisability))
		ew.printf("%-*s | %s\n", labelWidth, "Hospitalizace", f.DailyRate(r.Hospitalization))
		ew.printf("%-*s | %s\n", labelWidth, "Úraz", f.Currency(r.Injury))

		if n < len(summaries)-1 {
			ew.printf("\n")
		}
	}
	return ew.err
}

var csvHeader = []string{
	"name", "osvc", "income", "otherIncome", "expenses", "passiveIncome",
	"pensionLevel1", "pensionLevel2", "pensionLevel3",
	"death",
	"invalidity1", "invalidity1Constant", "invalidity1Variable", "invalidity1ExpectedIncome",
	"invalidity2", "invalidity2Constant", "invalidity2Variable", "invalidity2ExpectedIncome",
	"invalidity3", "invalidity3Constant", "invalidity3Variable", "invalidity3ExpectedIncome",
	"permanentInjury", "workDisability", "hospitalization", "injury",
}

// CsvFormat writes one header row and one row per person.
func CsvFormat(w io.Writer, summaries []summary.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range summaries {
		in := s.Input
		r := s.Results
		record := []string{s.Name, strconv.FormatBool(s.OSVC)}
		record = append(record, number(in.Income), number(in.OtherIncome), number(in.Expenses), number(in.PassiveIncome))
		for _, level := range in.PensionLevels {
			record = append(record, number(level))
		}
		record = append(record, number(r.Death))
		for _, inv := range r.Invalidity {
			record = append(record, number(inv.Total), number(inv.Constant), number(inv.Variable), number(inv.ExpectedIncome))
		}
		record = append(record, number(r.PermanentInjury), number(r.WorkDisability), number(r.Hospitalization), number(r.Injury))

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CsvString returns CsvFormat output as a string.
func CsvString(summaries []summary.Summary) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, summaries); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat writes the summaries as an indented JSON array.
func JSONFormat(w io.Writer, summaries []summary.Summary) error {
	if summaries == nil {
		summaries = []summary.Summary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// errWriter keeps the first write error so callers check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
