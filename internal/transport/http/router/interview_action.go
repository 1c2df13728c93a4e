package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-interview-api/internal/core/cache"
	"ai-interview-api/internal/domain"
	"ai-interview-api/internal/feature/interview"
	httpez "ai-interview-api/internal/transport/http/ez"
	"ai-interview-api/pkg/utils"
)

func mountInterviewActions(authed *gin.RouterGroup, d Deps) {
	ez := httpez.New(authed)

	// GET /api/interview/categories
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/interview/categories",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			return gin.H{"categories": interview.Categories(), "default": interview.DefaultCategory}, nil
		},
	})

	// POST /api/interview/setup
	type setupIn struct {
		InterviewType   string   `json:"interview_type"   binding:"required"`
		QuestionCount   int      `json:"question_count"   binding:"required,min=1"`
		CustomQuestions []string `json:"custom_questions"`
	}
	type setupOut struct {
		SessionID     string   `json:"session_id"`
		Questions     []string `json:"questions"`
		InterviewType string   `json:"interview_type"`
	}
	httpez.RegisterAction[setupIn, setupOut](ez, httpez.Action[setupIn, setupOut]{
		Method: http.MethodPost,
		Path:   "/interview/setup",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *setupIn) (setupOut, error) {
			questions := interview.SelectQuestions(in.InterviewType, in.QuestionCount, in.CustomQuestions)
			sess := &domain.InterviewSession{
				ID:            utils.NewID(),
				UserID:        c.GetString("userId"),
				InterviewType: in.InterviewType,
				Questions:     questions,
				Responses:     []domain.Response{},
				Status:        domain.StatusReady,
				CreatedAt:     time.Now(),
			}
			if err := d.Sessions.Create(c, sess); err != nil {
				return setupOut{}, httpez.Internal("create session failed", err)
			}
			return setupOut{
				SessionID:     sess.ID,
				Questions:     questions,
				InterviewType: in.InterviewType,
			}, nil
		},
	})

	// POST /api/interview/response
	type responseIn struct {
		SessionID        string `json:"session_id"        binding:"required"`
		QuestionIndex    *int   `json:"question_index"    binding:"required"`
		Question         string `json:"question"`
		ResponseText     string `json:"response_text"`
		ResponseDuration int    `json:"response_duration"`
	}
	httpez.RegisterAction[responseIn, gin.H](ez, httpez.Action[responseIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/interview/response",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *responseIn) (gin.H, error) {
			r := domain.Response{
				QuestionIndex:    *in.QuestionIndex,
				Question:         in.Question,
				ResponseText:     in.ResponseText,
				ResponseDuration: in.ResponseDuration,
			}
			err := d.Sessions.SaveResponse(c, in.SessionID, c.GetString("userId"), r)
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				return nil, httpez.NotFound("interview session not found")
			case errors.Is(err, domain.ErrSessionCompleted):
				return nil, httpez.BadRequest("interview session already completed")
			case errors.Is(err, domain.ErrBadQuestionIndex):
				return nil, httpez.BadRequest("question index out of range")
			case err != nil:
				return nil, httpez.Internal("save response failed", err)
			}
			return gin.H{
				"message":        "Response recorded",
				"session_id":     in.SessionID,
				"question_index": *in.QuestionIndex,
			}, nil
		},
	})

	// POST /api/interview/complete
	type completeIn struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	type completeOut struct {
		Message   string           `json:"message"`
		Feedback  *domain.Feedback `json:"feedback"`
		Score     int              `json:"score"`
		SessionID string           `json:"session_id"`
	}
	httpez.RegisterAction[completeIn, completeOut](ez, httpez.Action[completeIn, completeOut]{
		Method: http.MethodPost,
		Path:   "/interview/complete",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *completeIn) (completeOut, error) {
			uid := c.GetString("userId")
			fb, score, err := d.Feedback.Complete(c, in.SessionID, uid)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return completeOut{}, httpez.NotFound("interview session not found")
				}
				return completeOut{}, httpez.Internal("complete interview failed", err)
			}
			return completeOut{
				Message:   "Interview completed successfully",
				Feedback:  fb,
				Score:     score,
				SessionID: in.SessionID,
			}, nil
		},
	})

	// GET /api/interview/sessions
	type sessionSummary struct {
		ID            string     `json:"id"`
		InterviewType string     `json:"interview_type"`
		Status        string     `json:"status"`
		Score         *int       `json:"score,omitempty"`
		QuestionCount int        `json:"question_count"`
		CreatedAt     time.Time  `json:"created_at"`
		CompletedAt   *time.Time `json:"completed_at,omitempty"`
	}
	type listOut struct {
		Sessions []sessionSummary `json:"sessions"`
		Total    int              `json:"total"`
	}
	httpez.RegisterAction[struct{}, listOut](ez, httpez.Action[struct{}, listOut]{
		Method: http.MethodGet,
		Path:   "/interview/sessions",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (listOut, error) {
			sessions, err := d.Sessions.ListByUser(c, c.GetString("userId"))
			if err != nil {
				return listOut{}, httpez.Internal("list sessions failed", err)
			}
			out := listOut{Sessions: make([]sessionSummary, 0, len(sessions))}
			for _, s := range sessions {
				out.Sessions = append(out.Sessions, sessionSummary{
					ID:            s.ID,
					InterviewType: s.InterviewType,
					Status:        s.Status,
					Score:         s.Score,
					QuestionCount: len(s.Questions),
					CreatedAt:     s.CreatedAt,
					CompletedAt:   s.CompletedAt,
				})
			}
			out.Total = len(out.Sessions)
			return out, nil
		},
	})

	// GET /api/interview/sessions/:id. Completed sessions are immutable,
	// so they are served from redis once seen.
	httpez.RegisterAction[struct{}, *domain.InterviewSession](ez, httpez.Action[struct{}, *domain.InterviewSession]{
		Method: http.MethodGet,
		Path:   "/interview/sessions/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.InterviewSession, error) {
			uid := c.GetString("userId")
			id := c.Param("id")
			key := "interview:session:" + uid + ":" + id

			if s, ok := cache.GetJSON[domain.InterviewSession](d.Cache, c, key); ok {
				return s, nil
			}
			s, err := d.Sessions.Get(c, id, uid)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return nil, httpez.NotFound("interview session not found")
				}
				return nil, httpez.Internal("load session failed", err)
			}
			if s.Status == domain.StatusCompleted {
				cache.SetJSON(d.Cache, c, key, s, time.Hour)
			}
			return s, nil
		},
	})
}
