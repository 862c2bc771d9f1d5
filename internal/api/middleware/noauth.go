package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoAuth is a pass-through middleware for when AUTH_MODE=none.
// It allows all requests without authentication.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set an anonymous user ID for logging purposes
		c.Set("user_id", "anonymous")
		c.Next()
	}
}
