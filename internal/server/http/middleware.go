package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpavlovs/attachd/internal/server/auth"
)

const userIDKey = "userID"

// AuthMiddleware verifies the bearer token on incoming requests and stores
// the authenticated user id in the gin context.
func AuthMiddleware(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
