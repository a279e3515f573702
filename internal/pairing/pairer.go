// Package pairing evaluates the healing rule table for a set of problem
// labels and enriches the resulting product references from the catalog.
package pairing

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/catalog"
	"github.com/sana-labs/recommender-cli/internal/model"
	"github.com/sana-labs/recommender-cli/internal/rules"
)

// Pairer maps problem labels to complementary products via the rule table.
type Pairer struct {
	rules   rules.Source
	catalog catalog.Source
}

// New creates a Pairer over the given rule and catalog sources.
func New(src rules.Source, cat catalog.Source) *Pairer {
	return &Pairer{rules: src, catalog: cat}
}

// Pair evaluates the rule table for the given problem labels. No labels means
// no rules; the rule source's "empty matches all" behavior is never invoked
// from here. Collections are unions across matched rules, deduplicated
// case-insensitively with first-seen casing kept.
func (p *Pairer) Pair(ctx context.Context, problems []string) (*model.PairingResult, error) {
	result := &model.PairingResult{Problems: problems}
	if len(problems) == 0 {
		return result, nil
	}

	matched, err := p.rules.FindByProblems(ctx, problems)
	if err != nil {
		return nil, eris.Wrap(err, "pairing: find rules")
	}
	result.Rules = matched

	for _, r := range matched {
		result.EONames = appendUnique(result.EONames, model.SplitCell(r.EO1)...)
		result.EONames = appendUnique(result.EONames, model.SplitCell(r.EO2)...)
		result.EONames = appendUnique(result.EONames, model.SplitCell(r.EO3)...)
		result.Supplements = appendUnique(result.Supplements, model.SplitCell(r.Prawtein)...)
		result.TCMCodes = appendUnique(result.TCMCodes, model.SplitCell(r.TCMWan)...)

		// The Aloe cell is a flag ("ano"/"ne") or a concrete product name. A
		// name both sets the flag and pins the product; explicit negatives
		// count as neither.
		if model.FlagSet(r.Aloe) {
			result.AloeRecommended = true
		} else if !model.IsPlaceholder(r.Aloe) && !model.FlagNegative(r.Aloe) {
			result.AloeRecommended = true
			if result.AloeProduct == "" {
				result.AloeProduct = strings.TrimSpace(r.Aloe)
			}
		}

		// Merkaba is a pure flag cell, never a product name.
		if model.FlagSet(r.Merkaba) {
			result.MerkabaRecommended = true
		}
	}

	if err := p.enrich(ctx, result); err != nil {
		return nil, err
	}

	zap.L().Debug("pairing: evaluated rules",
		zap.Int("problems", len(problems)),
		zap.Int("rules", len(matched)),
		zap.Int("products", len(result.Products)),
	)

	return result, nil
}

// enrich resolves the collected references against the catalog. TCM cells
// carry product codes; EO and Prawtein cells carry names. References the
// catalog cannot resolve still appear in the result, carried by name or code,
// so a stale feed never silently drops a rule's recommendation.
func (p *Pairer) enrich(ctx context.Context, result *model.PairingResult) error {
	if len(result.TCMCodes) > 0 {
		found, err := p.catalog.ByCodes(ctx, result.TCMCodes)
		if err != nil {
			return eris.Wrap(err, "pairing: resolve tcm codes")
		}
		byCode := make(map[string]model.Product, len(found))
		for _, prod := range found {
			byCode[prod.Code] = prod
		}
		for _, code := range result.TCMCodes {
			if prod, ok := byCode[code]; ok {
				result.Products = append(result.Products, fromProduct(prod))
			} else {
				result.Products = append(result.Products, model.Recommendation{
					Code:     code,
					Name:     code,
					Category: model.CategoryTCM,
					Source:   model.SourcePairing,
				})
			}
		}
	}

	for _, name := range result.EONames {
		rec, err := p.searchByName(ctx, name, model.CategoryEOBlend)
		if err != nil {
			return err
		}
		result.Products = append(result.Products, rec)
	}

	for _, name := range result.Supplements {
		rec, err := p.searchByName(ctx, name, model.CategoryPrawtein)
		if err != nil {
			return err
		}
		result.Products = append(result.Products, rec)
	}

	if result.AloeProduct != "" {
		rec, err := p.searchByName(ctx, result.AloeProduct, "")
		if err != nil {
			return err
		}
		result.Products = append(result.Products, rec)
	}

	return nil
}

// searchByName resolves a rule-cell product name to a catalog record, falling
// back to a name-only entry on a miss.
func (p *Pairer) searchByName(ctx context.Context, name, category string) (model.Recommendation, error) {
	prod, err := p.catalog.SearchName(ctx, name, category)
	if err != nil {
		return model.Recommendation{}, eris.Wrapf(err, "pairing: search %q", name)
	}
	if prod == nil {
		zap.L().Debug("pairing: rule product not in catalog",
			zap.String("name", name),
			zap.String("category", category),
		)
		return model.Recommendation{Name: name, Category: category, Source: model.SourcePairing}, nil
	}
	return fromProduct(*prod), nil
}

func fromProduct(p model.Product) model.Recommendation {
	return model.Recommendation{
		Code:      p.Code,
		Name:      p.Name,
		Category:  p.Category,
		URL:       p.URL,
		Thumbnail: p.Thumbnail,
		Source:    model.SourcePairing,
	}
}

// appendUnique appends values not already present, comparing
// case-insensitively and keeping the first-seen casing.
func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		lower := strings.ToLower(v)
		dup := false
		for _, existing := range list {
			if strings.ToLower(existing) == lower {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, v)
		}
	}
	return list
}
