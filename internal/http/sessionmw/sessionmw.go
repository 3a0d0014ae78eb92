package sessionmw

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextKey = "session_id"

// Middleware makes sure every request carries a session cookie. The cookie
// has no max-age, so it lives as long as the browser session.
func Middleware(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.SetCookie(cookieName, id, 0, "/", "", false, true)
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// ID returns the session id attached by Middleware.
func ID(c *gin.Context) string {
	return c.GetString(contextKey)
}
