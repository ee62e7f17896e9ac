package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/travelbridge/internal/auth"
)

// CallerKey is the gin context key holding the authenticated *auth.Caller.
const CallerKey = "caller"

// AuthMiddleware authenticates the bearer token and stores the caller on the
// context. Whether the caller may act is decided later by the review guard.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		caller, err := auth.ValidateToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		// 3. --- Success ---
		c.Set(CallerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the authenticated caller, or nil when none was set.
func CallerFrom(c *gin.Context) *auth.Caller {
	v, ok := c.Get(CallerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*auth.Caller)
	return caller
}
