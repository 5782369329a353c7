package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/church-network-api/internal/access"
	"github.com/yukikurage/church-network-api/internal/constants"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
)

// RequireIdentity resolves the caller from the session. Requests without a
// complete identity are rejected with 401.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, _ := toUint64(session.Get(constants.SessionKeyUserID))
		role, _ := session.Get(constants.SessionKeyRole).(string)
		orgID, _ := toUint64(session.Get(constants.SessionKeyOrganizationID))

		identity, err := access.NewIdentity(userID, role, orgID)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyIdentity, identity)
		c.Next()
	}
}

// SaveIdentity writes the identity fields to the session.
func SaveIdentity(session sessions.Session, identity access.Identity) error {
	session.Set(constants.SessionKeyUserID, identity.UserID())
	session.Set(constants.SessionKeyRole, identity.Role().String())
	session.Set(constants.SessionKeyOrganizationID, identity.OrganizationID())
	return session.Save()
}

// GetIdentity retrieves the caller identity from context
func GetIdentity(c *gin.Context) (access.Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return access.Identity{}, false
	}
	identity, ok := value.(access.Identity)
	if !ok || !identity.Valid() {
		return access.Identity{}, false
	}
	return identity, true
}

func toUint64(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
