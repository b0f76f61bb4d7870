// Package middleware carries the request-scoped identity plumbing.
// Authentication itself happens upstream: the fronting gateway
// validates the session with the auth backend and forwards the user id.
// Here the profile (and with it the role) is resolved once per request;
// nothing downstream derives roles from identity strings.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
	repo "github.com/dmarinho2/prt-fiscal/internal/repository/supabase"
)

// UserIDHeader is set by the fronting auth gateway.
const UserIDHeader = "X-User-Id"

const profileKey = "identity.profile"

// Identity resolves the caller's profile and stores it on the context.
func Identity(repository repo.Repository, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		profile, err := repository.GetProfile(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("profile lookup failed", zap.String("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown identity"})
			return
		}

		c.Set(profileKey, *profile)
		c.Next()
	}
}

// RequireAdmin gates administrative routes on the resolved role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := Profile(c)
		if !ok || !profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// Profile returns the resolved profile for the current request.
func Profile(c *gin.Context) (models.UserProfile, bool) {
	value, exists := c.Get(profileKey)
	if !exists {
		return models.UserProfile{}, false
	}
	profile, ok := value.(models.UserProfile)
	return profile, ok
}
