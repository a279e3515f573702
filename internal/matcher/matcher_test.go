package matcher

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sana-labs/recommender-cli/internal/catalog"
	"github.com/sana-labs/recommender-cli/internal/model"
)

var testProducts = []model.Product{
	{
		Code:       "918",
		Name:       "NOHEPA esenciální olej",
		PinyinName: "nohepa",
		Category:   model.CategoryEOBlend,
	},
	{
		Code:       "921",
		Name:       "NOSE esenciální olej",
		PinyinName: "nose",
		Category:   model.CategoryEOBlend,
	},
	{
		Code:       "2288",
		Name:       "Bu zhong yi qi wan",
		PinyinName: "bu zhong yi qi wan",
		Category:   model.CategoryTCM,
	},
	{
		Code:       "2737",
		Name:       "Gui pi wan",
		PinyinName: "gui pi wan",
		Category:   model.CategoryTCM,
	},
	{
		Code:       "009",
		Name:       "Xiao yao wan",
		PinyinName: "xiao yao wan",
		Category:   model.CategoryTCM,
	},
	{
		Code:     "3100",
		Name:     "PRAWTEIN MOR GREEN",
		Category: model.CategoryPrawtein,
	},
	{
		// Malformed feed row, must be ignored.
		Code: "9999",
	},
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	return New(catalog.NewMemory(testProducts), 0)
}

func TestMatchOwnPinyinName(t *testing.T) {
	m := newTestMatcher(t)

	// Every record's own pinyin name must resolve back to that record.
	for _, p := range testProducts {
		if p.PinyinName == "" {
			continue
		}
		result, err := m.Match(context.Background(), []string{p.PinyinName})
		require.NoError(t, err)
		require.Len(t, result.Matches, 1, "pinyin %q should match", p.PinyinName)
		assert.Equal(t, p.Code, result.Matches[0].Product.Code)
		assert.GreaterOrEqual(t, result.Matches[0].Similarity, 0.9)
	}
}

func TestMatchEOBlendShortName(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.Match(context.Background(), []string{"NOHEPA"})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "918", result.Matches[0].Product.Code)
	assert.Empty(t, result.Unmatched)
}

func TestMatchNumericCode(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.Match(context.Background(), []string{"009", "9"})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "009", result.Matches[0].Product.Code)
	assert.Equal(t, 1.0, result.Matches[0].Similarity)
	// "9" is too short to be a code and matches nothing.
	assert.Equal(t, []string{"9"}, result.Unmatched)
}

func TestMatchBelowThresholdUnmatched(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.Match(context.Background(), []string{"uplne nezname jmeno"})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Equal(t, []string{"uplne nezname jmeno"}, result.Unmatched)
}

func TestMatchThresholdBoundary(t *testing.T) {
	src := catalog.NewMemory(testProducts)

	strict := New(src, 0.9)
	loose := New(src, 0.7)

	// "u zhong" scores on the plain-substring tier (0.75) against
	// "bu zhong yi qi wan": below the default bar, above the loose one.
	candidate := "u zhong"

	strictResult, err := strict.Match(context.Background(), []string{candidate})
	require.NoError(t, err)
	assert.Empty(t, strictResult.Matches)
	assert.Equal(t, []string{candidate}, strictResult.Unmatched)

	looseResult, err := loose.Match(context.Background(), []string{candidate})
	require.NoError(t, err)
	require.Len(t, looseResult.Matches, 1)
	assert.Equal(t, "2288", looseResult.Matches[0].Product.Code)
}

func TestMatchEmptyAndBlankCandidates(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.Match(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Unmatched)

	result, err = m.Match(context.Background(), []string{"  ", ""})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Unmatched)
}

// failingSource always errors, standing in for a dead feed database.
type failingSource struct{}

func (failingSource) All(context.Context) ([]model.Product, error) {
	return nil, eris.New("connection refused")
}

func (failingSource) ByCodes(context.Context, []string) ([]model.Product, error) {
	return nil, eris.New("connection refused")
}

func (failingSource) SearchName(context.Context, string, string) (*model.Product, error) {
	return nil, eris.New("connection refused")
}

func TestMatchCatalogFailureNoPartials(t *testing.T) {
	m := New(failingSource{}, 0)

	result, err := m.Match(context.Background(), []string{"NOHEPA", "gui pi wan"})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name string
		want model.ProductKind
	}{
		{"NOHEPA", model.KindEOBlend},
		{"NO", model.KindEOBlend},
		{"NOSE", model.KindEOBlend},
		{"PRAWTEIN MOR GREEN", model.KindPrawtein},
		{"prawtein", model.KindPrawtein},
		{"Bu zhong yi qi wan", model.KindWan},
		{"009", model.KindWan},
		{"2737", model.KindWan},
		{"", model.KindUnknown},
		{"olej", model.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.name))
		})
	}
}

func TestMatchByCodeLeadingZeros(t *testing.T) {
	p := matchByCode("009", testProducts)
	require.NotNil(t, p)
	assert.Equal(t, "009", p.Code)

	// Zero-trim works in both directions.
	p = matchByCode("00918", testProducts)
	require.NotNil(t, p)
	assert.Equal(t, "918", p.Code)
}
