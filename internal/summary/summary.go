// Package summary computes the coverage summary for every person in a
// household configuration.
package summary

import (
	"context"
	"fmt"
	"runtime"

	"github.com/iwvelando/coverage-calculator/internal/config"
	"github.com/iwvelando/coverage-calculator/internal/coverage"
	"github.com/iwvelando/coverage-calculator/internal/sheet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summary holds everything displayed for one person.
type Summary struct {
	Name            string                       `json:"name"`
	OSVC            bool                         `json:"osvc"`
	Input           coverage.Input               `json:"input"`
	PensionPercents [coverage.LevelCount]float64 `json:"pensionPercents"`
	Results         coverage.Results             `json:"results"`
}

// FromSheet builds a Summary from the sheet's current state.
func FromSheet(s *sheet.Sheet) Summary {
	snap := s.Snapshot()
	in := snap.Input()
	return Summary{
		Name:            snap.Profile.Name,
		OSVC:            in.OSVC,
		Input:           in,
		PensionPercents: snap.PensionPercents,
		Results:         coverage.Calculate(in),
	}
}

// GetSummaries processes the summaries for all persons, preserving the
// configured order.
func GetSummaries(ctx context.Context, logger *zap.Logger, conf config.Configuration) ([]Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	summaries := make([]Summary, len(conf.Persons))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, person := range conf.Persons {
		i, person := i, person
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			s, err := person.Sheet()
			if err != nil {
				return err
			}
			summaries[i] = FromSheet(s)

			logger.Debug(fmt.Sprintf("computed coverage for %s", person.Name),
				zap.String("op", "summary.GetSummaries"),
				zap.Float64("income", person.Income),
				zap.Float64("death", summaries[i].Results.Death),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
