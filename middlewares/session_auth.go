package middlewares

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin gates every panel page behind an authenticated session. The
// session must carry the full identity triple; anything less redirects to the
// login page before any query runs.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		userID, ok := session.Get("user_id").(uint)
		if !ok || userID == 0 {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		userName, _ := session.Get("user_name").(string)
		userRole, _ := session.Get("user_role").(string)

		c.Set("user_id", userID)
		c.Set("user_name", userName)
		c.Set("user_role", userRole)

		c.Next()
	}
}
