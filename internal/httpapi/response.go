package httpapi

import (
	"github.com/gin-gonic/gin"
)

// respondError writes {"error": "..."} and attaches err to the context for
// the request log.
func respondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
