package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks builds a transformer that removes combining marks after NFD
// decomposition. Czech product names are full of diacritics ("Čistý dech")
// that users routinely drop. A fresh chain per call: the chained transformer
// carries internal buffers and is not safe to share.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize prepares a name for comparison: casefold, strip diacritics,
// dashes to spaces, drop punctuation, collapse whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	if out, _, err := transform.String(stripMarks(), s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '-' || r == '–' || r == '—':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeEOBlend normalizes like Normalize and additionally strips the
// trailing "esencialni olej" / "eo" suffix that EO blend feed names carry
// but chat mentions never do ("NOHEPA" vs "NOHEPA esenciální olej").
func NormalizeEOBlend(s string) string {
	n := Normalize(s)
	n = strings.TrimSuffix(n, " esencialni olej")
	n = strings.TrimSuffix(n, " eo")
	return strings.TrimSpace(n)
}
