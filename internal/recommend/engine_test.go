package recommend

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Stage stubs. Each records its input and returns canned output.

type stubScreener struct {
	names []string
	err   error
	text  string
}

func (s *stubScreener) Screen(_ context.Context, text string, usage *model.TokenUsage) ([]string, error) {
	s.text = text
	if usage != nil {
		usage.Add(100, 10)
	}
	return s.names, s.err
}

type stubMatcher struct {
	result *model.MatchResult
	err    error
}

func (s *stubMatcher) Match(_ context.Context, names []string) (*model.MatchResult, error) {
	return s.result, s.err
}

type stubClassifier struct {
	problems []string
	err      error
	text     string
}

func (s *stubClassifier) Classify(_ context.Context, text string, usage *model.TokenUsage) ([]string, error) {
	s.text = text
	if usage != nil {
		usage.Add(200, 20)
	}
	return s.problems, s.err
}

type stubPairer struct {
	result *model.PairingResult
	err    error
}

func (s *stubPairer) Pair(_ context.Context, problems []string) (*model.PairingResult, error) {
	return s.result, s.err
}

func TestRecommendMergesBothPipelines(t *testing.T) {
	screener := &stubScreener{names: []string{"NOHEPA"}}
	matcher := &stubMatcher{result: &model.MatchResult{
		Matches: []model.Match{{
			MatchedFrom: "NOHEPA",
			Product:     model.Product{Code: "918", Name: "NOHEPA esenciální olej"},
			Similarity:  1.0,
		}},
		Unmatched: []string{"neznámé"},
	}}
	classifier := &stubClassifier{problems: []string{"Nespavost"}}
	pairer := &stubPairer{result: &model.PairingResult{
		Problems:           []string{"Nespavost"},
		MerkabaRecommended: true,
		Products: []model.Recommendation{
			{Code: "2288", Name: "Bu zhong yi qi wan", Source: model.SourcePairing},
			{Code: "918", Name: "NOHEPA esenciální olej", Source: model.SourcePairing},
		},
	}}

	e := NewEngine(screener, matcher, classifier, pairer)

	set, usage, err := e.Recommend(context.Background(), "špatně spím", "zkuste NOHEPA")
	require.NoError(t, err)

	// Screening input is the reply, classification input is the message.
	assert.Equal(t, "zkuste NOHEPA", screener.text)
	assert.Equal(t, "špatně spím", classifier.text)

	require.Len(t, set.Products, 2)
	assert.Equal(t, "918", set.Products[0].Code)
	assert.Equal(t, model.SourceScreening, set.Products[0].Source)
	assert.Equal(t, "2288", set.Products[1].Code)

	assert.Equal(t, []string{"neznámé"}, set.Unmatched)
	assert.Equal(t, []string{"Nespavost"}, set.Problems)
	assert.True(t, set.MerkabaRecommended)
	assert.Empty(t, set.ScreeningError)
	assert.Empty(t, set.PairingError)

	assert.Equal(t, 300, usage.InputTokens)
	assert.Equal(t, 30, usage.OutputTokens)
}

func TestRecommendScreeningFailureIsolated(t *testing.T) {
	screener := &stubScreener{err: eris.New("api down")}
	matcher := &stubMatcher{}
	classifier := &stubClassifier{problems: []string{"Nespavost"}}
	pairer := &stubPairer{result: &model.PairingResult{
		Problems: []string{"Nespavost"},
		Products: []model.Recommendation{{Code: "2288", Source: model.SourcePairing}},
	}}

	e := NewEngine(screener, matcher, classifier, pairer)

	set, _, err := e.Recommend(context.Background(), "špatně spím", "zkuste něco")
	require.NoError(t, err)

	assert.Contains(t, set.ScreeningError, "api down")
	assert.Empty(t, set.PairingError)
	require.Len(t, set.Products, 1)
	assert.Equal(t, "2288", set.Products[0].Code)
}

func TestRecommendPairingFailureIsolated(t *testing.T) {
	screener := &stubScreener{names: []string{"NOHEPA"}}
	matcher := &stubMatcher{result: &model.MatchResult{
		Matches: []model.Match{{
			Product:    model.Product{Code: "918"},
			Similarity: 1.0,
		}},
	}}
	classifier := &stubClassifier{err: eris.New("rules db down")}
	pairer := &stubPairer{}

	e := NewEngine(screener, matcher, classifier, pairer)

	set, _, err := e.Recommend(context.Background(), "špatně spím", "zkuste NOHEPA")
	require.NoError(t, err)

	assert.Contains(t, set.PairingError, "rules db down")
	assert.Empty(t, set.ScreeningError)
	require.Len(t, set.Products, 1)
	assert.Equal(t, "918", set.Products[0].Code)
}

func TestRecommendBothPipelinesFail(t *testing.T) {
	screener := &stubScreener{err: eris.New("api down")}
	classifier := &stubClassifier{err: eris.New("rules db down")}

	e := NewEngine(screener, &stubMatcher{}, classifier, &stubPairer{})

	set, _, err := e.Recommend(context.Background(), "zpráva", "odpověď delší než nic")
	require.Error(t, err)
	assert.Nil(t, set)
}
