package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key the envelope metadata reads.
const ContextKeyRequestID = "request_id"

// requestIDHeader carries the ID in and out of the service.
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an ID that lands in the
// response envelope, the echo header and any logs keyed off the context.
// An inbound header is honored only when it is a well-formed UUID, so a
// client cannot inject arbitrary strings into logs or envelopes.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(requestIDHeader, reqID)
		c.Next()
	}
}
