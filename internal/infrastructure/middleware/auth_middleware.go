package middleware

import (
	"net/http"
	"strings"

	"inknet/internal/core/domain"
	"inknet/internal/core/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthMiddleware rejects requests without a valid Bearer token and stores the
// authenticated identity in the gin context.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// IdentityFromContext returns the authenticated identity stored by
// AuthMiddleware, or false when the request was not authenticated.
func IdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	userIDVal, exists := c.Get(ContextUserIDKey)
	if !exists {
		return domain.Identity{}, false
	}
	userID, ok := userIDVal.(domain.UserID)
	if !ok {
		return domain.Identity{}, false
	}
	username, _ := c.Get(ContextUsernameKey)
	name, _ := username.(string)
	return domain.Identity{ID: userID, Username: name}, true
}
