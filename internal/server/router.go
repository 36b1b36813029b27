package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/handlers"
	"github.com/liftlab/liftlab-backend/internal/middleware"
)

type RouterConfig struct {
	IdentityMiddleware    *middleware.IdentityMiddleware
	AdminMiddleware       *middleware.AdminMiddleware
	FatigueHandler        *handlers.FatigueHandler
	RecapHandler          *handlers.RecapHandler
	RecommendationHandler *handlers.RecommendationHandler
	NotificationHandler   *handlers.NotificationHandler
	AdminHandler          *handlers.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:8081",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-ID", "X-Admin-Key"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.IdentityMiddleware.RequireUser())
	{
		api.GET("/fatigue", cfg.FatigueHandler.GetFatigue)
		api.GET("/recap", cfg.RecapHandler.GetRecap)
		api.GET("/recommendations/next-split", cfg.RecommendationHandler.GetNextSplit)

		api.GET("/notifications", cfg.NotificationHandler.ListInbox)
		api.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		api.POST("/notifications/:id/clicked", cfg.NotificationHandler.MarkClicked)
		api.GET("/notifications/preferences", cfg.NotificationHandler.GetPreferences)
		api.PUT("/notifications/preferences", cfg.NotificationHandler.UpdatePreferences)
		api.POST("/notifications/token", cfg.NotificationHandler.RegisterPushToken)
	}

	admin := router.Group("/api/admin")
	admin.Use(cfg.AdminMiddleware.RequireAdmin())
	{
		admin.POST("/notifications/run", cfg.AdminHandler.ForceRun)
	}

	return router
}
