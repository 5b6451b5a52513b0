package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/models"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// RequireRoles admits callers holding at least one of roles.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := models.NewRoleSet(roles...)
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if !principal.User.Roles.Intersects(allowed) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
