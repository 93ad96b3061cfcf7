package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func corsConfig(crossOrigin bool) cors.Config {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "HEAD"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
		},
		MaxAge: 12 * time.Hour,
	}
	if crossOrigin {
		config.AllowAllOrigins = true
	} else {
		// same origin requests bypass the check, every other origin gets a 403
		config.AllowOriginFunc = func(string) bool { return false }
	}
	return config
}

// CORS opens the control plane to other origins only when crossOrigin is set.
// Callers pass true only when token auth guards the API.
func CORS(crossOrigin bool) gin.HandlerFunc {
	return cors.New(corsConfig(crossOrigin))
}
