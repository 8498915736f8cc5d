package sheet

import (
	"errors"
	"sync"
	"testing"

	"github.com/iwvelando/coverage-calculator/internal/coverage"
)

func testProfile() Profile {
	return Profile{
		Name:     "Jan",
		Income:   30000,
		Expenses: 20000,
	}
}

func TestNewDerivesDefaultPensionLevels(t *testing.T) {
	s := New(testProfile())

	expected := coverage.PensionLevels{8580, 10074, 14883}
	if levels := s.PensionLevels(); levels != expected {
		t.Fatalf("PensionLevels() = %v, expected %v", levels, expected)
	}

	results := s.Results()
	if results.Invalidity[1].Total != 2185200 {
		t.Errorf("Invalidity[1].Total = %v, expected 2185200", results.Invalidity[1].Total)
	}
}

func TestPensionLevelsDetachFromIncome(t *testing.T) {
	s := New(testProfile())

	updated := testProfile()
	updated.Income = 60000
	s.SetProfile(updated)

	expected := coverage.PensionLevels{8580, 10074, 14883}
	if levels := s.PensionLevels(); levels != expected {
		t.Fatalf("PensionLevels() after income change = %v, expected %v", levels, expected)
	}
	if in := s.Input(); in.Income != 60000 {
		t.Errorf("Input().Income = %v, expected 60000", in.Income)
	}
}

func TestSetPensionLevel(t *testing.T) {
	s := New(testProfile())

	if err := s.SetPensionLevel(1, 30000); err != nil {
		t.Fatalf("SetPensionLevel() error = %v", err)
	}

	results := s.Results()
	if results.Invalidity[0].Total != 0 {
		t.Errorf("Invalidity[0].Total = %v, expected 0 once the pension covers income", results.Invalidity[0].Total)
	}
	if results.Invalidity[2].Total != 3023400 {
		t.Errorf("Invalidity[2].Total = %v, expected 3023400", results.Invalidity[2].Total)
	}
}

func TestSetPensionLevelOutOfRange(t *testing.T) {
	s := New(testProfile())
	for _, level := range []int{0, 4, -1} {
		if err := s.SetPensionLevel(level, 1); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("SetPensionLevel(%d) error = %v, expected ErrInvalidLevel", level, err)
		}
		if _, err := s.PensionPercent(level); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("PensionPercent(%d) error = %v, expected ErrInvalidLevel", level, err)
		}
	}
}

func TestPensionPercents(t *testing.T) {
	s := New(testProfile())
	expected := [coverage.LevelCount]float64{29, 34, 50}
	if percents := s.PensionPercents(); percents != expected {
		t.Errorf("PensionPercents() = %v, expected %v", percents, expected)
	}

	zero := NewWithPensionLevels(Profile{Name: "Nobody"}, coverage.PensionLevels{100, 200, 300})
	if percents := zero.PensionPercents(); percents != ([coverage.LevelCount]float64{}) {
		t.Errorf("PensionPercents() with zero income = %v, expected zeros", percents)
	}
}

func TestInputSnapshotIsIndependent(t *testing.T) {
	s := New(testProfile())
	snapshot := s.Input()

	if err := s.SetPensionLevel(3, 0); err != nil {
		t.Fatalf("SetPensionLevel() error = %v", err)
	}
	if snapshot.PensionLevels[2] != 14883 {
		t.Errorf("snapshot changed after edit: %v", snapshot.PensionLevels)
	}
}

func TestConcurrentEdits(t *testing.T) {
	s := New(testProfile())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.SetPensionLevel(i%coverage.LevelCount+1, float64(i))
			_ = s.Results()
		}(i)
	}
	wg.Wait()

	for i, result := range s.Results().Invalidity {
		if result.Total != result.Constant+result.Variable {
			t.Errorf("Invalidity[%d] breaks the sum invariant: %+v", i, result)
		}
	}
}

func TestSnapshotConsistentUnderEdits(t *testing.T) {
	low := testProfile()
	high := testProfile()
	high.Income = 60000
	s := NewWithPensionLevels(low, coverage.PensionLevels{15000, 15000, 15000})

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				s.SetProfile(high)
			} else {
				s.SetProfile(low)
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		snap := s.Snapshot()
		expected := 50.0
		if snap.Profile.Income == high.Income {
			expected = 25
		}
		for level, percent := range snap.PensionPercents {
			if percent != expected {
				close(done)
				wg.Wait()
				t.Fatalf("income %v level %d: percent %v, expected %v", snap.Profile.Income, level+1, percent, expected)
			}
		}
		if in := snap.Input(); in.Income != snap.Profile.Income || in.PensionLevels != snap.PensionLevels {
			close(done)
			wg.Wait()
			t.Fatalf("Input() %+v does not match snapshot %+v", in, snap)
		}
	}
	close(done)
	wg.Wait()
}
