// Package classify maps free chat text to the closed set of problem labels
// known to the healing rule table.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/config"
	"github.com/sana-labs/recommender-cli/internal/model"
	"github.com/sana-labs/recommender-cli/internal/rules"
	"github.com/sana-labs/recommender-cli/pkg/anthropic"
)

const systemPrompt = `You identify health problems discussed in a Czech therapeutic chat message.

You are given a closed list of known problem labels. Pick every label from the list that the message clearly discusses. Match on meaning, not exact wording.

Return ONLY a JSON array of the chosen labels, copied verbatim from the list, e.g. ["Bolest hlavy", "Nespavost"]. Return [] if the message discusses none of the listed problems. Never invent labels outside the list.`

const userPrompt = `Known problem labels:
%s

Message:
%s`

// Classifier runs the problem classification stage against the rule table's
// label set.
type Classifier struct {
	rules  rules.Source
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// New creates a Classifier.
func New(src rules.Source, client anthropic.Client, cfg config.AnthropicConfig) *Classifier {
	return &Classifier{rules: src, client: client, cfg: cfg}
}

// Classify returns the rule-table problem labels the text discusses. The
// label list is fetched fresh per call so rule-table edits take effect
// without a restart. Labels the model returns that are not in the list are
// dropped (case-insensitively) with a warning.
func (c *Classifier) Classify(ctx context.Context, text string, usage *model.TokenUsage) ([]string, error) {
	labels, err := c.rules.Problems(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "classify: load problem labels")
	}
	if len(labels) == 0 {
		zap.L().Warn("classify: rule table has no problem labels")
		return nil, nil
	}

	temp := c.cfg.Temperature
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		System:      systemPrompt,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPrompt, strings.Join(labels, "\n"), text)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "classify: create message")
	}
	if usage != nil {
		usage.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	raw, err := anthropic.ParseStringArray(resp.Text())
	if err != nil {
		zap.L().Warn("classify: unparseable model output, treating as no problems",
			zap.String("output", resp.Text()),
			zap.Error(err),
		)
		return nil, nil
	}

	return validateLabels(raw, labels), nil
}

// validateLabels keeps only labels present in the known set, normalizing each
// kept label to the rule table's canonical casing.
func validateLabels(raw, known []string) []string {
	canonical := make(map[string]string, len(known))
	for _, label := range known {
		canonical[strings.ToLower(strings.TrimSpace(label))] = label
	}

	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, label := range raw {
		key := strings.ToLower(strings.TrimSpace(label))
		want, ok := canonical[key]
		if !ok {
			zap.L().Warn("classify: model returned unknown label, dropping",
				zap.String("label", label),
			)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, want)
	}
	return out
}
