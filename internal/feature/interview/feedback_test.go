package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ai-interview-api/internal/domain"
	"ai-interview-api/internal/repo"
)

type fakeGen struct {
	text  string
	err   error
	calls int
}

func (f *fakeGen) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestRepo(t *testing.T) *repo.SessionRepo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	r := repo.NewSessionRepo(db)
	require.NoError(t, r.Migrate())
	return r
}

func seedSession(t *testing.T, r *repo.SessionRepo, withResponses bool) *domain.InterviewSession {
	t.Helper()
	s := &domain.InterviewSession{
		ID:            "sess-1",
		UserID:        "user-1",
		InterviewType: "Technical",
		Questions:     SelectQuestions("Technical", 2, nil),
		Responses:     []domain.Response{},
		Status:        domain.StatusReady,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, r.Create(context.Background(), s))
	if withResponses {
		require.NoError(t, r.SaveResponse(context.Background(), s.ID, s.UserID, domain.Response{
			QuestionIndex: 0, Question: s.Questions[0], ResponseText: "I fixed a race condition.", ResponseDuration: 42,
		}))
	}
	return s
}

func requireFullyPopulated(t *testing.T, fb *domain.Feedback) {
	t.Helper()
	require.NotNil(t, fb)
	assert.NotEmpty(t, fb.Assessment)
	assert.NotEmpty(t, fb.Strengths)
	assert.NotEmpty(t, fb.Improvements)
	assert.NotEmpty(t, fb.Suggestions)
	assert.GreaterOrEqual(t, fb.Score, 0)
	assert.LessOrEqual(t, fb.Score, 100)
}

func TestComplete_ServiceFailureFallsBackTo70(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{err: errors.New("quota exceeded")}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	fb, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 70, score)
	requireFullyPopulated(t, fb)

	got, err := r.Get(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.Score)
	assert.Equal(t, 70, *got.Score)
	assert.NotNil(t, got.CompletedAt)
}

func TestComplete_UnparseableTextFallsBackTo75(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{text: "I think the candidate did great overall!"}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	fb, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 75, score)
	requireFullyPopulated(t, fb)
}

func TestComplete_ParsesFencedJSON(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{text: "```json\n" + `{
		"assessment": "Solid technical depth.",
		"strengths": ["clarity", "depth"],
		"improvements": ["pacing", "examples"],
		"suggestions": ["practice STAR", "time answers"],
		"score": 88
	}` + "\n```"}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	fb, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 88, score)
	assert.Equal(t, "Solid technical depth.", fb.Assessment)
	assert.Equal(t, []string{"clarity", "depth"}, fb.Strengths)
}

func TestComplete_MissingScoreDefaultsTo75(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{text: `{
		"assessment": "Fine.",
		"strengths": ["a"],
		"improvements": ["b"],
		"suggestions": ["c"]
	}`}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	_, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 75, score)
}

func TestComplete_StringScoreAndClamping(t *testing.T) {
	cases := []struct {
		name  string
		score string
		want  int
	}{
		{"numeric string", `"92"`, 92},
		{"above range", `150`, 100},
		{"below range", `-3`, 0},
		{"garbage string", `"n/a"`, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRepo(t)
			seedSession(t, r, true)
			gen := &fakeGen{text: `{"assessment":"x","strengths":["s"],"improvements":["i"],"suggestions":["g"],"score":` + tc.score + `}`}
			svc := NewFeedbackService(r, gen, zap.NewNop())

			_, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestComplete_PartialObjectIsBackfilled(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{text: `{"assessment":"Decent.","score":81}`}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	fb, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 81, score)
	assert.Equal(t, "Decent.", fb.Assessment)
	requireFullyPopulated(t, fb)
}

func TestComplete_NoResponsesStillCompletes(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, false)
	gen := &fakeGen{err: errors.New("down")}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	fb, score, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 70, score)
	requireFullyPopulated(t, fb)
}

func TestComplete_SecondCallIsIdempotent(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	gen := &fakeGen{text: `{"assessment":"x","strengths":["s"],"improvements":["i"],"suggestions":["g"],"score":90}`}
	svc := NewFeedbackService(r, gen, zap.NewNop())

	_, first, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)
	fb, second, err := svc.Complete(context.Background(), "sess-1", "user-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	requireFullyPopulated(t, fb)
	assert.Equal(t, 1, gen.calls, "completed session must not call the AI again")
}

func TestComplete_WrongOwnerIsNotFound(t *testing.T) {
	r := newTestRepo(t)
	seedSession(t, r, true)
	svc := NewFeedbackService(r, &fakeGen{text: "{}"}, zap.NewNop())

	_, _, err := svc.Complete(context.Background(), "sess-1", "someone-else")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestBuildPrompt_PairsByPositionWithGaps(t *testing.T) {
	sess := &domain.InterviewSession{
		Questions: []string{"q0", "q1", "q2"},
		Responses: []domain.Response{
			{QuestionIndex: 2, ResponseText: "answer two"},
		},
	}
	p := buildPrompt(sess)
	assert.Contains(t, p, `"question": "q0"`)
	assert.Contains(t, p, `"response": ""`)
	assert.Contains(t, p, "answer two")
	assert.Contains(t, p, "Format your response as JSON with keys: assessment, strengths, improvements, suggestions, score")
}
