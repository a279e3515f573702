// Package store persists recommendation runs for auditing. Postgres backs
// shared deployments; SQLite backs single-operator and local use.
package store

import (
	"context"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for recommendation runs.
type Store interface {
	// CreateRun inserts a new run in running state.
	CreateRun(ctx context.Context, userMessage string) (*model.Run, error)
	// CompleteRun records the outcome and marks the run complete.
	CompleteRun(ctx context.Context, runID string, result *model.RecommendationSet, usage model.TokenUsage, replyText string) error
	// FailRun marks the run failed, keeping the failure reason in the reply.
	FailRun(ctx context.Context, runID string, reason string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
