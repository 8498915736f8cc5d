// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/coverage-calculator/internal/summary"
)

// FindSummary finds a person's summary by name in the results slice.
// Returns a pointer to the summary if found, nil otherwise.
func FindSummary(results []summary.Summary, name string) *summary.Summary {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
