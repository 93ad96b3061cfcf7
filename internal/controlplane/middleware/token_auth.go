package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenAuthConfig contains the configuration for token-based authentication.
type TokenAuthConfig struct {
	// Token is the authentication token. Empty disables auth.
	Token string
}

// TokenAuth checks the bearer token in the Authorization header, falling back
// to the token query parameter.
func TokenAuth(config TokenAuthConfig) gin.HandlerFunc {
	if config.Token == "" {
		slog.Info("control plane auth disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}
	slog.Info("control plane auth enabled")

	want := []byte(config.Token)
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}

		if subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			slog.Debug("invalid control plane token", "ip", c.ClientIP(), "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":  "ERR_UNAUTHORIZED",
				"error": "unauthorized",
			})
			return
		}

		c.Set("authenticated", true)
		c.Next()
	}
}
