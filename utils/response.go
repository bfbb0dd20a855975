package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with a {"error": message} body.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithErrorFields is RespondWithError with extra top-level keys.
func RespondWithErrorFields(c *gin.Context, status int, message string, fields map[string]any) {
	body := gin.H{"error": message}
	for k, v := range fields {
		body[k] = v
	}
	c.AbortWithStatusJSON(status, body)
}
