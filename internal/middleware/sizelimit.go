package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds submitted forms. The largest form, a visit, is
// a few kilobytes of text.
const DefaultMaxBodySize = 1 << 20

// SizeLimit rejects bodies whose declared length exceeds maxBytes and caps
// the reader for bodies without one.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
