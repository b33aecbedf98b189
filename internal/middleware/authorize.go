package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"syncportal/internal/models"
)

const (
	LoginPath     = "/"
	DashboardPath = "/dashboard"
)

// RequireRoles admits sessions holding one of roles; with no roles any
// authenticated session passes. Anonymous callers are sent to the login
// page and callers with the wrong role to the dashboard.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		if !st.Allows(roles...) {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
