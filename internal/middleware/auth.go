// internal/middleware/auth.go
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"budget-api/internal/auth"
	"budget-api/internal/domain"
	"budget-api/internal/users"

	"github.com/gin-gonic/gin"
)

// currentUserKey is where RequireAuth stores the resolved user.
const currentUserKey = "current_user"

type AuthMiddleware struct {
	tokens *auth.TokenService
	users  *users.Service
}

func NewAuthMiddleware(tokens *auth.TokenService, users *users.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth verifies the bearer token and resolves its subject to a
// user record. Handlers downstream receive the user explicitly via
// CurrentUser; nothing reads authentication state ambiently.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		username, err := m.tokens.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := m.users.Resolve(c.Request.Context(), username)
		if err != nil {
			// A valid token whose user no longer exists signals an
			// inconsistent token/store state; treat as unauthenticated.
			slog.Warn("token subject did not resolve", "subject", username, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireAuth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
