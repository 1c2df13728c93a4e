package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ai-interview-api/internal/core/auth"
	"ai-interview-api/internal/core/cache"
	"ai-interview-api/internal/domain"
	"ai-interview-api/internal/feature/interview"
	mdw "ai-interview-api/internal/transport/http/middleware"
)

// Deps is everything the API engine composes. Constructed in main,
// rebuilt with fakes in tests.
type Deps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Users    domain.UserRepository
	Sessions domain.SessionRepository
	Feedback *interview.FeedbackService
	Cache    *cache.Cache // nil disables caching
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(30*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AI Voice Interview API is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWTer))

	mountAuthActions(api, authed, d)
	mountInterviewActions(authed, d)

	return r
}
