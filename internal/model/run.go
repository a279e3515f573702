package model

import "time"

// RunStatus tracks the lifecycle of a persisted recommendation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the audit record of one recommendation computation. The engine
// itself is stateless per turn; runs exist so operators can inspect what a
// chatbot recommended and why.
type Run struct {
	ID          string             `json:"id"`
	UserMessage string             `json:"user_message,omitempty"`
	ReplyText   string             `json:"reply_text,omitempty"`
	Status      RunStatus          `json:"status"`
	Result      *RecommendationSet `json:"result,omitempty"`
	Usage       TokenUsage         `json:"usage"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
