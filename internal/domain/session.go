package domain

import (
	"context"
	"time"
)

// Session lifecycle is linear: in_progress -> ready -> completed.
const (
	StatusInProgress = "in_progress"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
)

// Response is one recorded answer, addressed by question index.
type Response struct {
	QuestionIndex    int    `json:"question_index"`
	Question         string `json:"question"`
	ResponseText     string `json:"response_text"`
	ResponseDuration int    `json:"response_duration"`
}

// Feedback is the fixed-schema assessment of a completed session.
// It is always fully populated, by the AI or by a canned fallback.
type Feedback struct {
	Assessment   string   `json:"assessment"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  []string `json:"suggestions"`
	Score        int      `json:"score"`
}

type InterviewSession struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	InterviewType string     `json:"interview_type"`
	Questions     []string   `json:"questions"`
	Responses     []Response `json:"responses"`
	Feedback      *Feedback  `json:"feedback,omitempty"`
	Score         *int       `json:"score,omitempty"`
	DurationSec   int        `json:"duration"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type SessionRepository interface {
	Create(ctx context.Context, s *InterviewSession) error
	// Get filters by session id AND owner; a wrong owner is
	// indistinguishable from a nonexistent id (ErrSessionNotFound).
	Get(ctx context.Context, id, userID string) (*InterviewSession, error)
	ListByUser(ctx context.Context, userID string) ([]InterviewSession, error)
	// SaveResponse records one answer at its question index. Rejects
	// completed sessions and out-of-range indexes.
	SaveResponse(ctx context.Context, id, userID string, r Response) error
	// Complete transitions to the terminal state: feedback, score,
	// completion timestamp and duration are persisted together.
	Complete(ctx context.Context, id, userID string, fb *Feedback, score int) error
}
