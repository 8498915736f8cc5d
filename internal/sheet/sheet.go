// Package sheet holds the editable state behind one person's coverage summary.
//
// A Sheet owns the income profile and the three pension levels. The levels
// are derived from income once, when the sheet is created, and from then on
// are edited independently. Every call to Results hands the calculator a
// fresh snapshot of that state.
package sheet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/iwvelando/coverage-calculator/internal/coverage"
	"github.com/iwvelando/coverage-calculator/pkg/mathutil"
)

// ErrInvalidLevel is returned when a pension level outside 1..3 is addressed.
var ErrInvalidLevel = errors.New("invalid pension level")

// Profile is the income information collected for one person.
type Profile struct {
	Name          string  `json:"name" yaml:"name"`
	Income        float64 `json:"income" yaml:"income"`
	OtherIncome   float64 `json:"otherIncome" yaml:"otherIncome"`
	OSVC          bool    `json:"osvc" yaml:"osvc"`
	Expenses      float64 `json:"expenses" yaml:"expenses"`
	PassiveIncome float64 `json:"passiveIncome" yaml:"passiveIncome"`
}

// Sheet is safe for concurrent use.
type Sheet struct {
	mu      sync.RWMutex
	profile Profile
	levels  coverage.PensionLevels
}

// New creates a sheet whose pension levels default to estimates based on
// the profile's income.
func New(profile Profile) *Sheet {
	return NewWithPensionLevels(profile, coverage.DefaultPensionLevels(profile.Income))
}

// NewWithPensionLevels creates a sheet starting from explicit pension levels.
func NewWithPensionLevels(profile Profile, levels coverage.PensionLevels) *Sheet {
	return &Sheet{profile: profile, levels: levels}
}

// Profile returns the current income profile.
func (s *Sheet) Profile() Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetProfile replaces the income profile. Pension levels are left as they are.
func (s *Sheet) SetProfile(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// PensionLevels returns a copy of the pension levels.
func (s *Sheet) PensionLevels() coverage.PensionLevels {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels
}

// SetPensionLevel updates the pension for a severity level numbered from 1.
func (s *Sheet) SetPensionLevel(level int, amount float64) error {
	if level < 1 || level > coverage.LevelCount {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[level-1] = amount
	return nil
}

// PensionPercent returns the pension for a severity level as a whole
// percentage of net income, or 0 when income is zero.
func (s *Sheet) PensionPercent(level int) (float64, error) {
	if level < 1 || level > coverage.LevelCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.percent(level - 1), nil
}

// PensionPercents returns PensionPercent for every level in order.
func (s *Sheet) PensionPercents() [coverage.LevelCount]float64 {
	return s.Snapshot().PensionPercents
}

// percent expects s.mu to be held.
func (s *Sheet) percent(i int) float64 {
	return mathutil.Round(mathutil.CalculatePercentage(s.levels[i], s.profile.Income))
}

// Snapshot is a consistent copy of a sheet's state.
type Snapshot struct {
	Profile         Profile
	PensionLevels   coverage.PensionLevels
	PensionPercents [coverage.LevelCount]float64
}

// Snapshot copies the profile, levels and percents under a single lock.
func (s *Sheet) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Profile: s.profile, PensionLevels: s.levels}
	for i := range snap.PensionPercents {
		snap.PensionPercents[i] = s.percent(i)
	}
	return snap
}

// Input converts the snapshot to calculator input.
func (snap Snapshot) Input() coverage.Input {
	return coverage.Input{
		Income:        snap.Profile.Income,
		OtherIncome:   snap.Profile.OtherIncome,
		OSVC:          snap.Profile.OSVC,
		Expenses:      snap.Profile.Expenses,
		PassiveIncome: snap.Profile.PassiveIncome,
		PensionLevels: snap.PensionLevels,
	}
}

// Input returns an immutable snapshot suitable for the calculator.
func (s *Sheet) Input() coverage.Input {
	return s.Snapshot().Input()
}

// Results recalculates coverage from the current state.
func (s *Sheet) Results() coverage.Results {
	return coverage.Calculate(s.Input())
}
