package routes

import (
	"MediCare/config"
	"MediCare/config/authorization"
	"MediCare/controllers"
	"MediCare/services"
	"MediCare/util"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", authorization.RequestIDHeader},
		ExposeHeaders: []string{authorization.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func Routes(r *gin.Engine, cfg *config.Config) {
	r.Use(
		authorization.RequestLogger(),
		authorization.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		cors.New(corsConfig(cfg.CORSOrigins)),
	)

	protect := authorization.JWTAuth(services.FetchUserByID)
	identify := authorization.OptionalAuth(services.FetchUserByID)
	limit := authorization.RateLimiter(authorization.RateLimitConfig{
		Limit:  cfg.LoginRateLimit,
		Window: cfg.LoginRateWindow,
	})

	api := r.Group("/api")
	//public
	api.GET("/health", controllers.Health)
	//mixed, each group guards its own private routes
	controllers.Auth(api, protect, limit)
	controllers.Admin(api, protect, limit)
	controllers.Appointment(api, protect, identify)
	//private
	controllers.Patient(api, protect)
	controllers.Staff(api, protect)
	controllers.Test(api, protect)
	controllers.Report(api, protect)
	controllers.Settings(api, protect)
	controllers.Profile(api, protect)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, util.FailedResponse(util.NewNotFoundError("Route "+c.Request.URL.Path+" not found")))
	})
}
