package screening

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sana-labs/recommender-cli/pkg/anthropic"
)

// mockAnthropicClient implements anthropic.Client for testing.
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

// textResponse builds a single-block response with the given text and usage.
func textResponse(text string, in, out int64) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: in, OutputTokens: out},
	}
}
