package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"ai-interview-api/internal/domain"
)

// Generator is the one capability the feedback service needs from the
// generative-text dependency. Tests inject a fake.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const (
	// fallbackServiceScore is reported when the AI call itself fails.
	fallbackServiceScore = 70
	// fallbackParseScore is reported when the AI answered but the text
	// did not parse, and when a parsed object carries no score.
	fallbackParseScore = 75
)

// FeedbackService turns a finished session into a populated feedback
// record. The AI dependency is unreliable by assumption, so every path
// out of Complete carries a fully-populated record: the generated one,
// or one of two canned fallbacks.
type FeedbackService struct {
	sessions domain.SessionRepository
	gen      Generator
	log      *zap.Logger
}

func NewFeedbackService(sessions domain.SessionRepository, gen Generator, log *zap.Logger) *FeedbackService {
	return &FeedbackService{sessions: sessions, gen: gen, log: log}
}

// Complete loads the session, asks the AI for feedback and moves the
// session to its terminal state. Completing an already-completed session
// returns the stored feedback without calling the AI again.
func (s *FeedbackService) Complete(ctx context.Context, sessionID, userID string) (*domain.Feedback, int, error) {
	sess, err := s.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, 0, err
	}

	if sess.Status == domain.StatusCompleted && sess.Feedback != nil {
		score := sess.Feedback.Score
		if sess.Score != nil {
			score = *sess.Score
		}
		return sess.Feedback, score, nil
	}

	fb := s.generate(ctx, sess)

	if err := s.sessions.Complete(ctx, sessionID, userID, fb, fb.Score); err != nil {
		return nil, 0, err
	}
	return fb, fb.Score, nil
}

func (s *FeedbackService) generate(ctx context.Context, sess *domain.InterviewSession) *domain.Feedback {
	prompt := buildPrompt(sess)

	text, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		s.log.Warn("ai feedback call failed, using fallback",
			zap.String("session_id", sess.ID), zap.Error(err))
		return serviceFallback()
	}

	fb, err := parseFeedback(text)
	if err != nil {
		s.log.Warn("ai feedback unparseable, using fallback",
			zap.String("session_id", sess.ID), zap.Error(err))
		return parseFallback()
	}
	return fb
}

// buildPrompt pairs every question with its recorded answer by position.
// Questions without an answer get empty text rather than failing.
func buildPrompt(sess *domain.InterviewSession) string {
	type qa struct {
		Question string `json:"question"`
		Response string `json:"response"`
	}

	byIndex := make(map[int]string, len(sess.Responses))
	for _, r := range sess.Responses {
		byIndex[r.QuestionIndex] = r.ResponseText
	}
	pairs := make([]qa, len(sess.Questions))
	for i, q := range sess.Questions {
		pairs[i] = qa{Question: q, Response: byIndex[i]}
	}
	transcript, _ := json.MarshalIndent(pairs, "", "  ")

	return fmt.Sprintf(`Please analyze this interview performance and provide constructive feedback:

Questions and Responses:
%s

Please provide:
1. Overall assessment (2-3 sentences)
2. Strengths identified (list of 2-3 items)
3. Areas for improvement (list of 2-3 items)
4. Specific suggestions (list of 2-3 actionable items)
5. A score out of 100

Format your response as JSON with keys: assessment, strengths, improvements, suggestions, score`, transcript)
}

// parseFeedback decodes the model's text into the fixed schema. Models
// routinely wrap JSON in a markdown code fence, so fences are stripped
// before decoding. The score may arrive as a JSON number or a numeric
// string; a missing score defaults to fallbackParseScore.
func parseFeedback(text string) (*domain.Feedback, error) {
	cleaned := stripCodeFence(text)

	var raw struct {
		Assessment   string          `json:"assessment"`
		Strengths    []string        `json:"strengths"`
		Improvements []string        `json:"improvements"`
		Suggestions  []string        `json:"suggestions"`
		Score        json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, err
	}

	fb := &domain.Feedback{
		Assessment:   raw.Assessment,
		Strengths:    raw.Strengths,
		Improvements: raw.Improvements,
		Suggestions:  raw.Suggestions,
		Score:        coerceScore(raw.Score),
	}
	fillMissing(fb)
	return fb, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func coerceScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return fallbackParseScore
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return clampScore(int(f))
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var f2 float64
		if _, err := fmt.Sscanf(strings.TrimSpace(str), "%f", &f2); err == nil {
			return clampScore(int(f2))
		}
	}
	return fallbackParseScore
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// fillMissing backfills fields the model omitted so the record is never
// partially populated. The parsed score is kept.
func fillMissing(fb *domain.Feedback) {
	canned := parseFallback()
	if strings.TrimSpace(fb.Assessment) == "" {
		fb.Assessment = canned.Assessment
	}
	if len(fb.Strengths) == 0 {
		fb.Strengths = canned.Strengths
	}
	if len(fb.Improvements) == 0 {
		fb.Improvements = canned.Improvements
	}
	if len(fb.Suggestions) == 0 {
		fb.Suggestions = canned.Suggestions
	}
}

// serviceFallback is the canned record for a failed AI call.
func serviceFallback() *domain.Feedback {
	return &domain.Feedback{
		Assessment: "Interview completed successfully. Thank you for participating in the mock interview session.",
		Strengths: []string{
			"Completed all questions",
			"Maintained professional tone",
			"Engaged throughout the process",
		},
		Improvements: []string{
			"Continue practicing to improve confidence",
			"Work on providing more detailed responses",
		},
		Suggestions: []string{
			"Record practice sessions for self-review",
			"Research common interview questions",
			"Practice with a timer",
		},
		Score: fallbackServiceScore,
	}
}

// parseFallback is the canned record for an unparseable AI answer.
func parseFallback() *domain.Feedback {
	return &domain.Feedback{
		Assessment: "Interview completed successfully. Responses showed good understanding of the questions and professional communication.",
		Strengths: []string{
			"Clear communication",
			"Professional demeanor",
			"Engaged throughout the process",
		},
		Improvements: []string{
			"Could provide more specific examples",
			"Consider elaborating on technical details",
		},
		Suggestions: []string{
			"Practice behavioral questions with STAR method",
			"Prepare more concrete examples",
			"Work on concise storytelling",
		},
		Score: fallbackParseScore,
	}
}
