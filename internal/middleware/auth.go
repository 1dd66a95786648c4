package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/auth"
	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/database"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/policy"
)

// RequireAuth validates the bearer token and loads the acting user (with
// their company) into the context. Everything downstream works with the
// hydrated actor instead of re-reading the token.
func RequireAuth(tokens *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().
			Preload("Company").
			First(&user, claims.UserID).Error; err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, user)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if err := policy.EnsureAdmin(&actor); err != nil {
			apierrors.Forbidden(c, "Administrator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActor retrieves the authenticated user from context
func GetActor(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	return user, ok
}
