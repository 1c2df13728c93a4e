package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"ai-interview-api/internal/domain"
)

// sessionRow mirrors the interview_sessions table. Questions, responses
// and feedback live in TEXT columns as JSON, so the row stays readable
// with plain SQL and the schema has exactly two tables.
type sessionRow struct {
	ID            string  `gorm:"primaryKey;size:36"`
	UserID        string  `gorm:"index;size:36"`
	InterviewType string  `gorm:"size:64"`
	Questions     string  `gorm:"type:text"`
	Responses     string  `gorm:"type:text"`
	Feedback      *string `gorm:"type:text"`
	Score         *int
	Duration      int
	Status        string `gorm:"size:16;default:in_progress"`
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

func (sessionRow) TableName() string { return "interview_sessions" }

type SessionRepo struct{ db *gorm.DB }

func NewSessionRepo(db *gorm.DB) *SessionRepo { return &SessionRepo{db: db} }

// Migrate creates the interview_sessions table.
func (r *SessionRepo) Migrate() error { return r.db.AutoMigrate(&sessionRow{}) }

func (r *SessionRepo) Create(ctx context.Context, s *domain.InterviewSession) error {
	row, err := toRow(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *SessionRepo) Get(ctx context.Context, id, userID string) (*domain.InterviewSession, error) {
	row, err := r.find(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return fromRow(row)
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string) ([]domain.InterviewSession, error) {
	var rows []sessionRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.InterviewSession, 0, len(rows))
	for i := range rows {
		s, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *SessionRepo) SaveResponse(ctx context.Context, id, userID string, resp domain.Response) error {
	row, err := r.find(ctx, id, userID)
	if err != nil {
		return err
	}
	if row.Status == domain.StatusCompleted {
		return domain.ErrSessionCompleted
	}
	s, err := fromRow(row)
	if err != nil {
		return err
	}
	if resp.QuestionIndex < 0 || resp.QuestionIndex >= len(s.Questions) {
		return domain.ErrBadQuestionIndex
	}
	// One slot per question; re-recording overwrites the previous answer.
	replaced := false
	for i := range s.Responses {
		if s.Responses[i].QuestionIndex == resp.QuestionIndex {
			s.Responses[i] = resp
			replaced = true
			break
		}
	}
	if !replaced {
		s.Responses = append(s.Responses, resp)
	}
	b, err := json.Marshal(s.Responses)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&sessionRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("responses", string(b)).Error
}

func (r *SessionRepo) Complete(ctx context.Context, id, userID string, fb *domain.Feedback, score int) error {
	row, err := r.find(ctx, id, userID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(fb)
	if err != nil {
		return err
	}
	now := time.Now()
	updates := map[string]any{
		"status":       domain.StatusCompleted,
		"feedback":     string(b),
		"score":        score,
		"completed_at": now,
		"duration":     int(now.Sub(row.CreatedAt).Seconds()),
	}
	return r.db.WithContext(ctx).Model(&sessionRow{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates).Error
}

func (r *SessionRepo) find(ctx context.Context, id, userID string) (*sessionRow, error) {
	var row sessionRow
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func toRow(s *domain.InterviewSession) (*sessionRow, error) {
	q, err := json.Marshal(s.Questions)
	if err != nil {
		return nil, err
	}
	resp, err := json.Marshal(s.Responses)
	if err != nil {
		return nil, err
	}
	row := &sessionRow{
		ID:            s.ID,
		UserID:        s.UserID,
		InterviewType: s.InterviewType,
		Questions:     string(q),
		Responses:     string(resp),
		Score:         s.Score,
		Duration:      s.DurationSec,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
	}
	if s.Feedback != nil {
		b, err := json.Marshal(s.Feedback)
		if err != nil {
			return nil, err
		}
		fb := string(b)
		row.Feedback = &fb
	}
	return row, nil
}

func fromRow(row *sessionRow) (*domain.InterviewSession, error) {
	s := &domain.InterviewSession{
		ID:            row.ID,
		UserID:        row.UserID,
		InterviewType: row.InterviewType,
		Questions:     []string{},
		Responses:     []domain.Response{},
		Score:         row.Score,
		DurationSec:   row.Duration,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
		CompletedAt:   row.CompletedAt,
	}
	if row.Questions != "" {
		if err := json.Unmarshal([]byte(row.Questions), &s.Questions); err != nil {
			return nil, err
		}
	}
	if row.Responses != "" {
		if err := json.Unmarshal([]byte(row.Responses), &s.Responses); err != nil {
			return nil, err
		}
	}
	if row.Feedback != nil && *row.Feedback != "" {
		var fb domain.Feedback
		if err := json.Unmarshal([]byte(*row.Feedback), &fb); err != nil {
			return nil, err
		}
		s.Feedback = &fb
	}
	return s, nil
}
