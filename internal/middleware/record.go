package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/church-network-api/internal/constants"
	apierrors "github.com/yukikurage/church-network-api/internal/errors"
)

// RequireRecordID parses the :id path parameter
func RequireRecordID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyRecordID, id)
		c.Next()
	}
}

// GetRecordID retrieves the parsed :id from context
func GetRecordID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyRecordID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
