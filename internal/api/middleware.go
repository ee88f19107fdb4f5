package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blogicum/blogicum/internal/auth"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxIsStaff  = "is_staff"

	loginPath = "/auth/login"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// OptionalAuth resolves the requester's identity when a valid bearer token
// is present. Reads stay anonymous otherwise.
func OptionalAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, claims, err := tokens.ParseToken(token); err == nil {
				c.Set(ctxUserID, userID)
				c.Set(ctxUsername, claims.Username)
				c.Set(ctxIsStaff, claims.IsStaff)
			}
		}
		c.Next()
	}
}

// RequireAuth guards mutating routes. An unauthenticated request is
// redirected to the login flow rather than rejected with an error.
func RequireAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		userID, claims, err := tokens.ParseToken(token)
		if err != nil {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxIsStaff, claims.IsStaff)
		c.Next()
	}
}

// RequireStaff guards admin-managed resources
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "staff access required",
			})
			return
		}
		c.Next()
	}
}

// currentUserID returns the authenticated user id, 0 when anonymous
func currentUserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
