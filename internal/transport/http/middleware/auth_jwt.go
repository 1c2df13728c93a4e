package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-interview-api/internal/core/auth"
	"ai-interview-api/internal/domain"
	resp "ai-interview-api/internal/transport/http/response"
)

// AuthJWT verifies the bearer token and exposes userId/email to handlers.
// Expired and malformed tokens get distinct messages, same 401 status.
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, domain.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, msg))
			return
		}
		c.Set("userId", claims.UID)
		c.Set("email", claims.Email)
		c.Set("claims", claims)
		c.Next()
	}
}
