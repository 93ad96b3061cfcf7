package controlplane

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallysync/tallysync/internal/controlplane/handlers"
	"github.com/tallysync/tallysync/internal/controlplane/middleware"
	"github.com/tallysync/tallysync/internal/session"
	"github.com/tallysync/tallysync/internal/version"
)

type RouteConfig struct {
	Auth      middleware.TokenAuthConfig
	RateLimit string
}

func SetupRoutes(sess *session.Session, routeConfig *RouteConfig) (http.Handler, error) {
	rateLimiter, err := middleware.RateLimiter(routeConfig.RateLimit)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	statusH := handlers.NewStatusHandler(sess)
	itemsH := handlers.NewItemsHandler(sess)
	configH := handlers.NewConfigHandler(sess)
	syncH := handlers.NewSyncHandler(sess)

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(routeConfig.Auth.Token != ""))
	r.Use(middleware.Gzip())
	r.Use(rateLimiter)

	r.GET("/", IndexHandler)
	r.GET("/healthz", HealthHandler)

	v1 := r.Group("/v1")
	v1.Use(middleware.TokenAuth(routeConfig.Auth))
	{
		v1.GET("/status", statusH.Status)
		v1.GET("/items", itemsH.GetItems)

		v1Nav := v1.Group("/navigate")
		{
			v1Nav.POST("/up", itemsH.Up)
			v1Nav.POST("/into", itemsH.Into)
		}

		v1Config := v1.Group("/config")
		{
			v1Config.PUT("/source", configH.SetSource)
			v1Config.PUT("/destination", configH.SetDestination)
		}

		v1.POST("/sync", syncH.Sync)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler(), nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func IndexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Detailed())
}

func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
