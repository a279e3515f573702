package recommend

import (
	"strings"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Merge unions screening and pairing recommendations, deduplicating by
// product code with first occurrence winning. Screening entries come first,
// so a product both mentioned by the user and recommended by a rule keeps its
// screening provenance and similarity. Entries without a code (rule products
// missing from the catalog) deduplicate by casefolded name instead.
func Merge(screened []model.Match, paired []model.Recommendation) []model.Recommendation {
	merged := make([]model.Recommendation, 0, len(screened)+len(paired))
	seen := make(map[string]struct{}, len(screened)+len(paired))

	add := func(rec model.Recommendation) {
		key := rec.Code
		if key == "" {
			key = "name:" + strings.ToLower(strings.TrimSpace(rec.Name))
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		merged = append(merged, rec)
	}

	for _, m := range screened {
		add(model.Recommendation{
			Code:       m.Product.Code,
			Name:       m.Product.Name,
			Category:   m.Product.Category,
			URL:        m.Product.URL,
			Thumbnail:  m.Product.Thumbnail,
			Source:     model.SourceScreening,
			Similarity: m.Similarity,
		})
	}

	for _, rec := range paired {
		add(rec)
	}

	return merged
}
