// Package coverage computes recommended insurance coverage amounts from a
// person's income profile.
//
// Every function in this package is pure: results depend only on the
// arguments, nothing is cached and no state is shared, so callers may invoke
// Calculate concurrently for as many people as they like.
package coverage

import (
	"math"

	"github.com/iwvelando/coverage-calculator/pkg/constants"
	"github.com/iwvelando/coverage-calculator/pkg/mathutil"
)

// LevelCount is the number of invalidity severity levels.
const LevelCount = 3

// Rates used by the formulas below.
const (
	deathBaseAmount     = 100000.0
	deathExpenseRatio   = 0.8
	deathDeficitMonths  = 36
	invalidityMonths    = 200
	permanentInjuryRate = 100
	permanentInjuryCap  = 5 // years of income
	sickPayRatio        = 0.4
	dailyRateStep       = 50.0
	injuryIncomeRatio   = 0.6
	injuryPeriodMonths  = 2
	injuryCountStep     = 15000.0
	injuryCountAmount   = 100000.0
)

var (
	// invalidityFactors is the share of income a person is still expected
	// to earn at each severity level.
	invalidityFactors = [LevelCount]float64{0.6, 0.3, 0}

	// invalidityMultipliers caps the constant portion at this many years
	// of income.
	invalidityMultipliers = [LevelCount]float64{3, 4, 5}

	// defaultPensionRatios derive the expected state pension from net income.
	defaultPensionRatios = [LevelCount]float64{0.286, 0.3358, 0.4961}
)

// PensionLevels holds the expected state invalidity pension for severity
// levels 1, 2 and 3, in that order.
type PensionLevels [LevelCount]float64

// Input is a snapshot of one person's income profile.
type Input struct {
	Income        float64       `json:"income" yaml:"income"`
	OtherIncome   float64       `json:"otherIncome" yaml:"otherIncome"`
	OSVC          bool          `json:"osvc" yaml:"osvc"`
	Expenses      float64       `json:"expenses" yaml:"expenses"`
	PassiveIncome float64       `json:"passiveIncome" yaml:"passiveIncome"`
	PensionLevels PensionLevels `json:"pensionLevels" yaml:"pensionLevels"`
}

// InvalidityResult splits the invalidity payout for one severity level.
// Total always equals Constant + Variable.
type InvalidityResult struct {
	Total          float64 `json:"total"`
	Constant       float64 `json:"constant"`
	Variable       float64 `json:"variable"`
	ExpectedIncome float64 `json:"expectedIncome"`
}

// Results holds the recommended coverage amounts. WorkDisability and
// Hospitalization are daily rates, everything else is a lump sum.
type Results struct {
	Death           float64                      `json:"death"`
	Invalidity      [LevelCount]InvalidityResult `json:"invalidity"`
	PermanentInjury float64                      `json:"permanentInjury"`
	WorkDisability  float64                      `json:"workDisability"`
	Hospitalization float64                      `json:"hospitalization"`
	Injury          float64                      `json:"injury"`
}

// Calculate computes all coverage amounts for the given input.
func Calculate(in Input) Results {
	return Results{
		Death:           Death(in.OtherIncome, in.PassiveIncome, in.Expenses),
		Invalidity:      Invalidity(in.Income, in.PassiveIncome, in.PensionLevels),
		PermanentInjury: PermanentInjury(in.Income),
		WorkDisability:  WorkDisability(in.Income, in.OSVC),
		Hospitalization: Hospitalization(in.Income),
		Injury:          Injury(in.Income),
	}
}

// DefaultPensionLevels estimates the state invalidity pension for each
// severity level from net monthly income.
func DefaultPensionLevels(income float64) PensionLevels {
	var levels PensionLevels
	for i, ratio := range defaultPensionRatios {
		levels[i] = mathutil.Round(income * ratio)
	}
	return levels
}

// Death returns the death benefit: a base lump sum plus 36 months of any
// shortfall between the remaining household income and 80% of expenses.
func Death(otherIncome, passiveIncome, expenses float64) float64 {
	deficit := (otherIncome + passiveIncome) - expenses*deathExpenseRatio
	amount := deathBaseAmount
	if deficit < 0 {
		amount += math.Abs(deficit) * deathDeficitMonths
	}
	return mathutil.Round(amount)
}

// Invalidity returns one result per severity level, in the order of levels.
func Invalidity(income, passiveIncome float64, levels PensionLevels) [LevelCount]InvalidityResult {
	var results [LevelCount]InvalidityResult
	for i, pension := range levels {
		results[i] = invalidityLevel(income, passiveIncome, pension, invalidityFactors[i], invalidityMultipliers[i])
	}
	return results
}

func invalidityLevel(income, passiveIncome, pension, factor, multiplier float64) InvalidityResult {
	expectedIncome := income*factor + pension + passiveIncome
	deficit := mathutil.Max(0, income-expectedIncome)
	amount := deficit * invalidityMonths
	constant := mathutil.Min(income*multiplier*constants.MonthsPerYear, amount)

	// Variable is derived from the rounded parts, never rounded on its own,
	// otherwise Total != Constant + Variable for fractional amounts.
	total := mathutil.Round(amount)
	roundedConstant := mathutil.Round(constant)
	return InvalidityResult{
		Total:          total,
		Constant:       roundedConstant,
		Variable:       total - roundedConstant,
		ExpectedIncome: mathutil.Round(expectedIncome),
	}
}

// PermanentInjury returns 100 months of income capped at five years of income.
func PermanentInjury(income float64) float64 {
	return mathutil.Min(mathutil.Round(income*permanentInjuryRate), income*constants.MonthsPerYear*permanentInjuryCap)
}

// WorkDisability returns the daily sick-leave benefit. Employees already
// receive 40% from state sick pay, the self-employed receive nothing.
func WorkDisability(income float64, osvc bool) float64 {
	daily := (income * sickPayRatio) / constants.DaysPerMonth
	if osvc {
		daily = income / constants.DaysPerMonth
	}
	return mathutil.CeilToMultiple(daily, dailyRateStep)
}

// Hospitalization returns the daily hospitalization benefit.
func Hospitalization(income float64) float64 {
	return mathutil.CeilToMultiple((income*sickPayRatio)/constants.DaysPerMonth, dailyRateStep)
}

// Injury returns the injury lump sum covering two months of lost income.
// The need is counted in steps of 15000 and every step is worth 100000.
func Injury(income float64) float64 {
	monthlyNeed := income - income*injuryIncomeRatio
	needed := monthlyNeed * injuryPeriodMonths
	return math.Ceil(needed/injuryCountStep) * injuryCountAmount
}
