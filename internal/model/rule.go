package model

import "strings"

// rulePlaceholders are cell values that mean "not applicable" in the healing
// rule table. The table is maintained by hand in a spreadsheet, so both the
// ASCII hyphen and the typographic en dash show up.
var rulePlaceholders = map[string]struct{}{
	"":  {},
	"-": {},
	"–": {},
}

// Rule is one row of the healing rule table: a problem label mapped to
// recommended complementary products. EO1–EO3 hold essential oil blend names
// or codes; Prawtein and TCMWan hold supplement and herbal formula codes.
// Aloe and Merkaba are flag-like cells ("ano"/"ne"); the Aloe cell may also
// carry a concrete Aloe product name.
type Rule struct {
	ID       int64  `json:"id,omitempty"`
	Problem  string `json:"problem"`
	EO1      string `json:"eo1,omitempty"`
	EO2      string `json:"eo2,omitempty"`
	EO3      string `json:"eo3,omitempty"`
	Prawtein string `json:"prawtein,omitempty"`
	TCMWan   string `json:"tcm_wan,omitempty"`
	Aloe     string `json:"aloe,omitempty"`
	Merkaba  string `json:"merkaba,omitempty"`
	Note     string `json:"note,omitempty"`
}

// IsPlaceholder reports whether a rule cell value means "not applicable".
func IsPlaceholder(v string) bool {
	_, ok := rulePlaceholders[strings.TrimSpace(v)]
	return ok
}

// FlagSet reports whether a flag-like cell is affirmative. The table authors
// use "ano", "yes" and "1" interchangeably.
func FlagSet(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ano", "yes", "1":
		return true
	}
	return false
}

// FlagNegative reports whether a flag-like cell is an explicit negative.
// Hand-maintained rows mix "ne", "no" and "0" with the placeholder dashes.
func FlagNegative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "ne", "no", "0":
		return true
	}
	return false
}

// SplitCell splits a comma-separated rule cell into trimmed, non-placeholder
// values. Cells like "BEST FRIEND, LEVANDULE" carry multiple products.
func SplitCell(v string) []string {
	if IsPlaceholder(v) {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !IsPlaceholder(part) {
			out = append(out, part)
		}
	}
	return out
}
