package screening

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sana-labs/recommender-cli/internal/config"
	"github.com/sana-labs/recommender-cli/internal/model"
)

var testAICfg = config.AnthropicConfig{
	Model:       "claude-haiku-4-5-20251001",
	Temperature: 0.1,
	MaxTokens:   500,
}

func TestScreenExtractsNames(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`["NOHEPA", "Bu zhong yi qi wan"]`, 120, 15), nil)

	s := New(client, testAICfg, 0)

	var usage model.TokenUsage
	names, err := s.Screen(context.Background(), "Doporučuji vám NOHEPA a k tomu Bu zhong yi qi wan na doplnění energie.", &usage)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOHEPA", "Bu zhong yi qi wan"}, names)
	assert.Equal(t, 120, usage.InputTokens)
	assert.Equal(t, 15, usage.OutputTokens)
	client.AssertExpectations(t)
}

func TestScreenSkipsShortText(t *testing.T) {
	client := &mockAnthropicClient{}

	s := New(client, testAICfg, 0)

	names, err := s.Screen(context.Background(), "Dobrý den", nil)
	require.NoError(t, err)
	assert.Nil(t, names)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestScreenShortTextRuneCounted(t *testing.T) {
	client := &mockAnthropicClient{}

	s := New(client, testAICfg, 0)

	// 19 runes but 21 bytes; diacritics must not push it over the minimum.
	names, err := s.Screen(context.Background(), "Děkuji, měj se fajn", nil)
	require.NoError(t, err)
	assert.Nil(t, names)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestScreenFencedOutput(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("```json\n[\"NOSE\"]\n```", 80, 8), nil)

	s := New(client, testAICfg, 0)

	names, err := s.Screen(context.Background(), "Na rýmu bych zkusila esenciální olej NOSE, aplikovat dvakrát denně.", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"NOSE"}, names)
}

func TestScreenUnparseableOutputDegrades(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("I could not find any product mentions in this text.", 50, 12), nil)

	s := New(client, testAICfg, 0)

	var usage model.TokenUsage
	names, err := s.Screen(context.Background(), "Dlouhý text bez jediného konkrétního produktu, jen obecné povídání.", &usage)
	require.NoError(t, err)
	assert.Nil(t, names)
	// Usage still counts: the call happened even though parsing failed.
	assert.Equal(t, 50, usage.InputTokens)
}

func TestScreenAPIFailure(t *testing.T) {
	client := &mockAnthropicClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("rate limited"))

	s := New(client, testAICfg, 0)

	names, err := s.Screen(context.Background(), "Doporučuji vám NOHEPA a k tomu něco na spaní, třeba levanduli.", nil)
	require.Error(t, err)
	assert.Nil(t, names)
}
