package classify

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sana-labs/recommender-cli/internal/config"
	"github.com/sana-labs/recommender-cli/internal/model"
	"github.com/sana-labs/recommender-cli/internal/rules"
	"github.com/sana-labs/recommender-cli/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 10},
	}
}

var testAICfg = config.AnthropicConfig{
	Model:       "claude-haiku-4-5-20251001",
	Temperature: 0.1,
	MaxTokens:   500,
}

var testRules = rules.NewMemory([]model.Rule{
	{Problem: "Bolest hlavy – ze stresu"},
	{Problem: "Nespavost"},
	{Problem: "Únava"},
})

func TestClassifyKeepsKnownLabels(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`["Nespavost", "Bolest hlavy – ze stresu"]`), nil)

	c := New(testRules, client, testAICfg)

	var usage model.TokenUsage
	labels, err := c.Classify(context.Background(), "Špatně spím a bolí mě hlava ze stresu.", &usage)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nespavost", "Bolest hlavy – ze stresu"}, labels)
	assert.Equal(t, 100, usage.InputTokens)
}

func TestClassifyDropsUnknownLabels(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`["Nespavost", "Vymyšlený problém"]`), nil)

	c := New(testRules, client, testAICfg)

	labels, err := c.Classify(context.Background(), "Nemůžu v noci spát, pořád se budím.", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nespavost"}, labels)
}

func TestClassifyCanonicalizesCasing(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`["nespavost", "NESPAVOST", "únava"]`), nil)

	c := New(testRules, client, testAICfg)

	labels, err := c.Classify(context.Background(), "Jsem pořád unavená a špatně spím.", nil)
	require.NoError(t, err)
	// Canonical table casing, duplicates collapsed.
	assert.Equal(t, []string{"Nespavost", "Únava"}, labels)
}

func TestClassifyUnparseableOutputDegrades(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("The user seems stressed."), nil)

	c := New(testRules, client, testAICfg)

	labels, err := c.Classify(context.Background(), "Dneska to bylo náročné.", nil)
	require.NoError(t, err)
	assert.Nil(t, labels)
}

func TestClassifyEmptyLabelSetSkipsLLM(t *testing.T) {
	client := &mockAnthropicClient{}

	c := New(rules.NewMemory(nil), client, testAICfg)

	labels, err := c.Classify(context.Background(), "Bolí mě záda.", nil)
	require.NoError(t, err)
	assert.Nil(t, labels)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestClassifyRuleSourceFailure(t *testing.T) {
	client := &mockAnthropicClient{}

	c := New(failingRules{}, client, testAICfg)

	_, err := c.Classify(context.Background(), "Bolí mě hlava.", nil)
	require.Error(t, err)
}

type failingRules struct{}

func (failingRules) FindByProblems(context.Context, []string) ([]model.Rule, error) {
	return nil, eris.New("connection refused")
}

func (failingRules) Problems(context.Context) ([]string, error) {
	return nil, eris.New("connection refused")
}
