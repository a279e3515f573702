package model

// Product is a single catalog record from the product feed. The pinyin name
// is a precomputed transliteration generated out-of-band and exists only to
// make fuzzy matching robust to romanization and inflection variance.
type Product struct {
	Code       string  `json:"product_code"`
	Name       string  `json:"product_name"`
	PinyinName string  `json:"pinyin_name,omitempty"`
	Category   string  `json:"category,omitempty"`
	Price      float64 `json:"price,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	URL        string  `json:"url,omitempty"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
}

// Matchable reports whether the record carries at least one name usable for
// matching. Malformed feed rows with neither name are skipped by the matcher.
func (p Product) Matchable() bool {
	return p.Name != "" || p.PinyinName != ""
}

// ProductKind is the candidate-side product family detected from a raw name
// string before matching. Each kind narrows the catalog slice the matcher
// scores against.
type ProductKind string

const (
	KindEOBlend  ProductKind = "eo_blend"
	KindWan      ProductKind = "wan"
	KindPrawtein ProductKind = "prawtein"
	KindUnknown  ProductKind = "unknown"
)

// Canonical category labels used by the rule table and the product feed.
const (
	CategoryPrawtein = "PRAWTEIN® – superpotravinové směsi"
	CategoryTCM      = "TČM - Tradiční čínská medicína"
	CategoryEOBlend  = "Směsi esenciálních olejů"
)
