package matcher

import (
	"strings"
	"unicode"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// DetectKind classifies a raw candidate name into a product family so the
// matcher can score against the right catalog slice. Heuristics, in order:
// "prawtein" anywhere wins; short spaceless uppercase tokens are EO blend
// names (NO, NOSE, NOHEPA); long multiword names and bare numeric codes are
// TCM wans (pinyin names, "009").
func DetectKind(name string) model.ProductKind {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return model.KindUnknown
	}

	if strings.Contains(strings.ToLower(trimmed), "prawtein") {
		return model.KindPrawtein
	}

	if len(trimmed) >= 2 && len(trimmed) <= 6 && !strings.Contains(trimmed, " ") {
		var letters, uppers int
		for _, r := range trimmed {
			if unicode.IsLetter(r) {
				letters++
			}
			if unicode.IsUpper(r) {
				uppers++
			}
		}
		if letters >= 2 && uppers > 0 {
			return model.KindEOBlend
		}
	}

	if len(trimmed) > 10 && strings.Contains(trimmed, " ") {
		if len(strings.Fields(trimmed)) >= 2 {
			return model.KindWan
		}
	}

	if isNumericCode(trimmed) {
		return model.KindWan
	}

	return model.KindUnknown
}

// isNumericCode reports whether s is a bare product code like "009" or "2737".
func isNumericCode(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Category predicates for the product-feed side. The feed's category labels
// vary in spelling and diacritics, so these match loosely.

func isEOBlendCategory(category string) bool {
	n := Normalize(category)
	if n == "" {
		return false
	}
	return (strings.Contains(n, "smes") && strings.Contains(n, "esencialni")) ||
		strings.Contains(n, "eo smes")
}

func isWanCategory(category string) bool {
	n := Normalize(category)
	if n == "" {
		return false
	}
	return strings.Contains(n, "wan") ||
		strings.Contains(n, "tcm") ||
		strings.Contains(n, "tradicni cinska")
}

func isPrawteinCategory(category string) bool {
	return strings.Contains(Normalize(category), "prawtein")
}

// categoryFilter returns the predicate for a detected kind, or nil when the
// whole catalog should be searched.
func categoryFilter(kind model.ProductKind) func(string) bool {
	switch kind {
	case model.KindEOBlend:
		return isEOBlendCategory
	case model.KindWan:
		return isWanCategory
	case model.KindPrawtein:
		return isPrawteinCategory
	}
	return nil
}
