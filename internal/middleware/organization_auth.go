package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
	"github.com/yukikurage/church-network-api/internal/models"
)

// RequireRole rejects callers that do not hold role.
// Must run after RequireIdentity.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if identity.Role() != role {
			apierrors.Respond(c, fmt.Errorf("%w: only %s users can perform this action", apierrors.ErrForbidden, role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRootAdmin restricts a route to root organization administrators.
func RequireRootAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleRootAdmin)
}
