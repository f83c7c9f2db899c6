package middleware

import (
	"crypto/subtle"
	"net/http"

	"stockatelier/internal/apierror"

	"github.com/gin-gonic/gin"
)

// AgentToken authenticates the desktop CAD agent via the shared X-Token
// header. When no token is configured the endpoints are closed entirely.
func AgentToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("agent registration disabled"))
			return
		}
		got := c.GetHeader("X-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid agent token"))
			return
		}
		c.Next()
	}
}
