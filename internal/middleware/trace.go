package middleware

import (
	"strings"

	"github.com/epeers/frontier/internal/services"
	"github.com/gin-gonic/gin"
)

// TraceHeader turns on objective tracing for a single request
const TraceHeader = "X-Frontier-Trace"

// Trace marks the request context for tracing when TraceHeader is "1" or
// "true". Services read the mark with services.TraceEnabled.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		v := strings.ToLower(strings.TrimSpace(c.GetHeader(TraceHeader)))
		if v == "1" || v == "true" {
			c.Request = c.Request.WithContext(services.WithTrace(c.Request.Context()))
		}
		c.Next()
	}
}
