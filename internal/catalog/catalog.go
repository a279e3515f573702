// Package catalog provides read access to the external product feed. All
// components that need product records depend on the Source port instead of
// constructing their own database client.
package catalog

import (
	"context"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Source is the catalog lookup port.
type Source interface {
	// All returns every product record in the feed.
	All(ctx context.Context) ([]model.Product, error)
	// ByCodes returns the records whose product code is in codes. Codes with
	// no catalog record are silently absent from the result.
	ByCodes(ctx context.Context, codes []string) ([]model.Product, error)
	// SearchName returns the first record whose name contains fragment
	// (case-insensitive), optionally restricted to a category. Returns
	// (nil, nil) when nothing matches.
	SearchName(ctx context.Context, fragment, category string) (*model.Product, error)
}
