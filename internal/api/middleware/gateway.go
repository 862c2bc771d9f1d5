package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GatewayAuth trusts user info from gateway headers (X-User-ID, X-User-Email, X-User-Role)
// Used when the API runs behind a gateway that has already authenticated
// the caller.
//
// When AUTH_MODE=gateway, the API trusts these headers unconditionally.
// This should ONLY be used with proper network isolation.
func GatewayAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Missing X-User-ID header from gateway",
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_email", c.GetHeader("X-User-Email"))
		c.Set("user_role", c.GetHeader("X-User-Role"))

		c.Next()
	}
}

// GetUserID returns the caller's user ID set by GatewayAuth or NoAuth
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	return userID, userID != ""
}
