// Package rules provides access to the healing rule table mapping problem
// labels to recommended complementary products.
package rules

import (
	"context"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Source is the rule-table lookup port.
type Source interface {
	// FindByProblems returns the rows whose problem label matches any of the
	// given labels, case-insensitively. An empty or nil slice matches every
	// row — documented "no filter" semantics inherited from the rule table's
	// SQL function. Callers that want "no problems, no rules" must not call
	// with an empty slice.
	FindByProblems(ctx context.Context, problems []string) ([]model.Rule, error)
	// Problems returns the distinct problem labels in the table, for building
	// the classifier's closed label set.
	Problems(ctx context.Context) ([]string, error)
}
