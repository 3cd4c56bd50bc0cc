package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
)

const headerRequestID = "X-Request-ID"

// RequestID takes X-Request-ID from the request or generates one, stores it
// on the request context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(headerRequestID, id)
		c.Next()
	}
}
