package model

// Match pairs a candidate string extracted from free text with the
// best-scoring catalog record. A candidate maps to at most one product;
// ties are broken by the lowest product code.
type Match struct {
	MatchedFrom string  `json:"matched_from"`
	Product     Product `json:"product"`
	Similarity  float64 `json:"similarity"`
}

// MatchResult is the outcome of resolving a batch of candidate strings.
// Candidates that cleared the acceptance threshold land in Matches; the rest
// are reported verbatim in Unmatched. Duplicate resolutions to the same
// product are kept — deduplication happens later, at the merge step.
type MatchResult struct {
	Matches   []Match  `json:"matches"`
	Unmatched []string `json:"unmatched,omitempty"`
}
