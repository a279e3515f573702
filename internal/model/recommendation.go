package model

// RecommendationSource identifies which stage produced a recommendation.
type RecommendationSource string

const (
	SourceScreening RecommendationSource = "screening"
	SourcePairing   RecommendationSource = "pairing"
)

// Recommendation is a single product entry in a recommendation list,
// enriched from the catalog where a matching record exists.
type Recommendation struct {
	Code      string               `json:"product_code"`
	Name      string               `json:"product_name"`
	Category  string               `json:"category,omitempty"`
	URL       string               `json:"url,omitempty"`
	Thumbnail string               `json:"thumbnail,omitempty"`
	Source    RecommendationSource `json:"source"`
	// Similarity is set for screening-derived entries only.
	Similarity float64 `json:"similarity,omitempty"`
}

// PairingResult is the outcome of evaluating the rule table for a set of
// problem labels: the matching rules plus the collections derived from them.
type PairingResult struct {
	Problems           []string         `json:"problems"`
	Rules              []Rule           `json:"rules,omitempty"`
	Supplements        []string         `json:"supplements,omitempty"`
	TCMCodes           []string         `json:"tcm_codes,omitempty"`
	EONames            []string         `json:"eo_names,omitempty"`
	AloeRecommended    bool             `json:"aloe_recommended"`
	AloeProduct        string           `json:"aloe_product,omitempty"`
	MerkabaRecommended bool             `json:"merkaba_recommended"`
	Products           []Recommendation `json:"products,omitempty"`
}

// RecommendationSet is the merged per-turn result shown to the user:
// screening+matching products unioned with pairing products, deduplicated by
// product code with the screening side winning collisions.
type RecommendationSet struct {
	Products           []Recommendation `json:"products"`
	Unmatched          []string         `json:"unmatched,omitempty"`
	Problems           []string         `json:"problems,omitempty"`
	AloeRecommended    bool             `json:"aloe_recommended"`
	AloeProduct        string           `json:"aloe_product,omitempty"`
	MerkabaRecommended bool             `json:"merkaba_recommended"`
	// Stage failures are isolated: a failed screening still yields pairing
	// results and vice versa. The reason strings surface what was lost.
	ScreeningError string `json:"screening_error,omitempty"`
	PairingError   string `json:"pairing_error,omitempty"`
}

// TokenUsage tallies LLM token consumption across a turn's calls.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates another usage sample.
func (u *TokenUsage) Add(in, out int64) {
	u.InputTokens += int(in)
	u.OutputTokens += int(out)
}
