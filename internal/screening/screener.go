// Package screening extracts product-name mentions from free chat text with
// an LLM. It returns raw name strings only; resolving them against the
// catalog is the matcher's job.
package screening

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/config"
	"github.com/sana-labs/recommender-cli/internal/model"
	"github.com/sana-labs/recommender-cli/pkg/anthropic"
)

// DefaultMinTextLen is the shortest reply worth screening. Shorter replies
// are greetings or acknowledgements and never carry product mentions.
const DefaultMinTextLen = 20

const systemPrompt = `You extract BEWIT product names from Czech therapeutic chat messages.

The assortment has three families:
- Essential oil blends with short uppercase names (NO, NOSE, NOHEPA, GOLEM, BEST FRIEND)
- TCM herbal formulas ("wan") with multiword pinyin names (Bu zhong yi qi wan) or numeric codes (009)
- PRAWTEIN superfood blends (PRAWTEIN MOR GREEN)

Find every concrete product mention in the message. Return ONLY a JSON array of the mentioned product names as they appear in the text, e.g. ["NOHEPA", "Bu zhong yi qi wan"]. Return [] if no products are mentioned. Do not invent products, do not include generic words like "olej" or "kapky" alone.`

const userPrompt = `Message:
%s`

// Screener runs the product screening stage.
type Screener struct {
	client     anthropic.Client
	cfg        config.AnthropicConfig
	minTextLen int
}

// New creates a Screener. A minTextLen of 0 selects DefaultMinTextLen.
func New(client anthropic.Client, cfg config.AnthropicConfig, minTextLen int) *Screener {
	if minTextLen <= 0 {
		minTextLen = DefaultMinTextLen
	}
	return &Screener{client: client, cfg: cfg, minTextLen: minTextLen}
}

// Screen extracts product names from text. Texts under the minimum length are
// skipped without an API call. Unparseable model output degrades to an empty
// list rather than failing the turn; the raw output is logged for diagnosis.
func (s *Screener) Screen(ctx context.Context, text string, usage *model.TokenUsage) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	// Length is counted in runes; Czech diacritics must not inflate it.
	if runeLen := utf8.RuneCountInString(trimmed); runeLen < s.minTextLen {
		zap.L().Debug("screening: text below minimum length, skipping",
			zap.Int("len", runeLen),
			zap.Int("min", s.minTextLen),
		)
		return nil, nil
	}

	temp := s.cfg.Temperature
	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPrompt, trimmed)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "screening: create message")
	}
	if usage != nil {
		usage.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	names, err := anthropic.ParseStringArray(resp.Text())
	if err != nil {
		zap.L().Warn("screening: unparseable model output, treating as no mentions",
			zap.String("output", resp.Text()),
			zap.Error(err),
		)
		return nil, nil
	}

	zap.L().Debug("screening: extracted product mentions",
		zap.Strings("names", names),
	)

	return names, nil
}
