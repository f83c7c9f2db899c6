package middleware

import (
	"net/http"

	"stockatelier/internal/apierror"
	"stockatelier/internal/permissions"
	"stockatelier/internal/session"

	"github.com/gin-gonic/gin"
)

const SessionKey = "session"

// SessionAuth resolves the session cookie on every protected route. A
// missing, tampered or expired cookie is a uniform 401.
func SessionAuth(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}
		sess, err := store.Resolve(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// RequireRole rejects requests whose session role is below the required one
// (viewer < operator < admin).
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil || !permissions.AtLeast(sess.Role, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetSession is a helper to retrieve the typed session from the Gin context.
func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// Caps computes the capability record for the current session's role.
func Caps(c *gin.Context) permissions.Capabilities {
	if sess := GetSession(c); sess != nil {
		return permissions.ForRole(sess.Role)
	}
	return permissions.Capabilities{}
}
