package rules

import (
	"context"
	"sort"
	"strings"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// Memory is an in-memory rules source for tests and local fixtures.
type Memory struct {
	Rules []model.Rule
}

var _ Source = (*Memory)(nil)

// NewMemory creates an in-memory rules source.
func NewMemory(rules []model.Rule) *Memory {
	return &Memory{Rules: rules}
}

// FindByProblems returns the rules matching any of the labels,
// case-insensitively. Empty input matches all rules.
func (m *Memory) FindByProblems(_ context.Context, problems []string) ([]model.Rule, error) {
	if len(problems) == 0 {
		out := make([]model.Rule, len(m.Rules))
		copy(out, m.Rules)
		return out, nil
	}

	wanted := make(map[string]struct{}, len(problems))
	for _, p := range problems {
		wanted[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}

	var out []model.Rule
	for _, r := range m.Rules {
		if _, ok := wanted[strings.ToLower(strings.TrimSpace(r.Problem))]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Problems returns the distinct non-empty problem labels, sorted.
func (m *Memory) Problems(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{}, len(m.Rules))
	var labels []string
	for _, r := range m.Rules {
		label := strings.TrimSpace(r.Problem)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}
