package httpapi

import (
	"net/http"
	"strings"

	"github.com/dkhodakov/habitsync/internal/server/auth"
	"github.com/dkhodakov/habitsync/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// authMiddleware verifies the bearer token and upserts the caller's display
// identity so feed joins always have a username to show. The websocket
// endpoint accepts the token as a query parameter because browser websocket
// clients cannot set headers.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(s.cfg.SecretKey, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user := &models.User{ID: claims.Subject, Username: claims.Username}
		if user.Username == "" {
			user.Username = claims.Subject
		}
		if err := s.users.Upsert(c.Request.Context(), user); err != nil {
			s.log.Error(c.Request.Context(), "user upsert failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxUsername, user.Username)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
