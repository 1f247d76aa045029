package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapmeal/snapmeal-backend/internal/logger"
)

// AuthMiddleware gates every API route behind the shared bot token carried in
// the Auth header, matching the permission model of the original backend.
type AuthMiddleware struct {
	log      *logger.Logger
	botToken string
}

func NewAuthMiddleware(log *logger.Logger, botToken string) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, botToken: botToken}
}

func (am *AuthMiddleware) RequireBotToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Auth")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth token"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(am.botToken)) != 1 {
			am.log.Warn("Rejected request with invalid auth token", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
