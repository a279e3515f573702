// Package matcher resolves candidate product-name strings against the
// catalog using kind detection and tiered string similarity over the
// precomputed pinyin names.
package matcher

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/catalog"
	"github.com/sana-labs/recommender-cli/internal/model"
)

// DefaultThreshold is the acceptance bar: a candidate whose best score falls
// below it is reported unmatched rather than wrongly resolved.
const DefaultThreshold = 0.9

// Matcher resolves free-text product mentions to catalog records.
type Matcher struct {
	catalog   catalog.Source
	threshold float64
}

// New creates a Matcher over the given catalog source. A threshold of 0
// selects DefaultThreshold.
func New(src catalog.Source, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{catalog: src, threshold: threshold}
}

// Match resolves each candidate string to its best-scoring catalog record.
// The catalog is fetched once per call; a fetch failure fails the whole
// operation with no partial results. Candidates below the threshold are
// returned in Unmatched. Multiple candidates may resolve to the same product;
// deduplication is the merge step's job.
func (m *Matcher) Match(ctx context.Context, names []string) (*model.MatchResult, error) {
	result := &model.MatchResult{}
	if len(names) == 0 {
		return result, nil
	}

	products, err := m.catalog.All(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "matcher: load catalog")
	}

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		best, score := m.bestMatch(name, products)
		if best != nil && score >= m.threshold {
			result.Matches = append(result.Matches, model.Match{
				MatchedFrom: name,
				Product:     *best,
				Similarity:  score,
			})
			zap.L().Debug("matcher: resolved candidate",
				zap.String("candidate", name),
				zap.String("product_code", best.Code),
				zap.Float64("similarity", score),
			)
		} else {
			result.Unmatched = append(result.Unmatched, name)
			zap.L().Debug("matcher: no match above threshold",
				zap.String("candidate", name),
				zap.Float64("best_score", score),
			)
		}
	}

	return result, nil
}

// bestMatch finds the highest-scoring catalog record for one candidate.
// Numeric codes are unambiguous, so an exact code comparison runs before any
// fuzzy scoring. Equal scores break deterministically toward the lowest
// product code.
func (m *Matcher) bestMatch(name string, products []model.Product) (*model.Product, float64) {
	trimmed := strings.TrimSpace(name)

	if isNumericCode(trimmed) {
		if p := matchByCode(trimmed, products); p != nil {
			return p, 1.0
		}
	}

	kind := DetectKind(trimmed)
	filter := categoryFilter(kind)

	var (
		best      *model.Product
		bestScore float64
	)

	for i := range products {
		p := &products[i]
		if !p.Matchable() {
			continue
		}
		if filter != nil && !filter(p.Category) {
			continue
		}

		eoBlend := isEOBlendCategory(p.Category)

		normName := Normalize(trimmed)
		if eoBlend {
			normName = NormalizeEOBlend(trimmed)
		}

		for _, candidate := range []string{p.PinyinName, p.Name} {
			if candidate == "" {
				continue
			}
			normCandidate := Normalize(candidate)
			if eoBlend {
				normCandidate = NormalizeEOBlend(candidate)
			}

			score := Similarity(normName, normCandidate, eoBlend)
			if score > bestScore || (score == bestScore && best != nil && score > 0 && p.Code < best.Code) {
				best = p
				bestScore = score
			}
		}
	}

	return best, bestScore
}

// matchByCode compares a numeric candidate against product codes, tolerating
// leading zeros ("009" vs "9").
func matchByCode(code string, products []model.Product) *model.Product {
	stripped := strings.TrimLeft(code, "0")

	var found *model.Product
	for i := range products {
		p := &products[i]
		if p.Code == code || (stripped != "" && strings.TrimLeft(p.Code, "0") == stripped) {
			if found == nil || p.Code < found.Code {
				found = p
			}
		}
	}
	return found
}
