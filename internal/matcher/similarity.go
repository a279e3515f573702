package matcher

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Similarity scores two normalized strings in [0,1]. The tiers mirror how
// users actually mangle product names: a mention is usually the catalog
// name's head ("nohepa" for "nohepa esencialni olej"), sometimes a word in
// the middle, rarely a genuine misspelling. EO blends get a small boost on
// the prefix tiers because their short names are the whole identity.
//
//  1. exact equality               → 1.0
//  2. shorter is a prefix          → 0.98 (EO) / 0.95
//  3. same first word              → 0.95 (EO) / 0.92
//  4. shorter on a word boundary   → 0.90 (EO) / 0.88
//  5. plain substring              → 0.75
//  6. word overlap + edit distance → blended score below threshold territory
func Similarity(a, b string, eoBlend bool) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}

	if strings.HasPrefix(longer, shorter) {
		if eoBlend {
			return 0.98
		}
		return 0.95
	}

	if firstWord(a) == firstWord(b) {
		if eoBlend {
			return 0.95
		}
		return 0.92
	}

	if containsWord(longer, shorter) {
		if eoBlend {
			return 0.90
		}
		return 0.88
	}

	if strings.Contains(longer, shorter) {
		return 0.75
	}

	overlap := wordOverlap(a, b)
	edit := levenshtein.Similarity(a, b, nil)
	return overlap*0.6 + edit*0.4
}

// containsWord reports whether needle appears in haystack on word boundaries.
// Both strings are already normalized to letters/digits/single-spaces.
func containsWord(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

func firstWord(s string) string {
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx]
	}
	return s
}

// wordOverlap is the share of meaningful words (length > 2) the two strings
// have in common, relative to the longer word list.
func wordOverlap(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	inB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		inB[w] = struct{}{}
	}

	var common int
	for _, w := range wordsA {
		if len(w) <= 2 {
			continue
		}
		if _, ok := inB[w]; ok {
			common++
		}
	}

	maxLen := len(wordsA)
	if len(wordsB) > maxLen {
		maxLen = len(wordsB)
	}
	return float64(common) / float64(maxLen)
}
