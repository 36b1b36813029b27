package main

import (
	"context"
	"fmt"
	"os"

	"github.com/liftlab/liftlab-backend/internal/clients/expo"
	redisclient "github.com/liftlab/liftlab-backend/internal/clients/redis"
	"github.com/liftlab/liftlab-backend/internal/db"
	"github.com/liftlab/liftlab-backend/internal/handlers"
	"github.com/liftlab/liftlab-backend/internal/logger"
	"github.com/liftlab/liftlab-backend/internal/middleware"
	"github.com/liftlab/liftlab-backend/internal/repos"
	"github.com/liftlab/liftlab-backend/internal/server"
	"github.com/liftlab/liftlab-backend/internal/services"
	"github.com/liftlab/liftlab-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	sessionRepo := repos.NewWorkoutSessionRepo(thePG, log)
	setRepo := repos.NewWorkoutSetRepo(thePG, log)
	eventRepo := repos.NewNotificationEventRepo(thePG, log)
	squadRepo := repos.NewSquadRepo(thePG, log)

	// Clients
	recapCache, err := redisclient.NewRecapCache(log)
	if err != nil {
		log.Warn("Recap cache unavailable, recaps recompute every request", "error", err)
		recapCache = nil
	}

	pushClient, err := expo.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init push client", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up services from main...")
	userService := services.NewUserService(thePG, log, userRepo)
	fatigueService := services.NewFatigueService(thePG, log, setRepo)
	readinessService := services.NewReadinessService(thePG, log, fatigueService)
	recapService := services.NewRecapService(thePG, log, sessionRepo, setRepo, recapCache)
	recommendationService := services.NewRecommendationService(thePG, log, sessionRepo, fatigueService)
	notificationService := services.NewNotificationService(thePG, log, userRepo, sessionRepo, eventRepo, squadRepo, recapService, pushClient)
	schedulerService := services.NewSchedulerService(thePG, log, userRepo, notificationService)
	schedulerService.StartWorker(context.Background())

	// Handlers
	log.Info("Setting up handlers from main...")
	fatigueHandler := handlers.NewFatigueHandler(fatigueService, readinessService)
	recapHandler := handlers.NewRecapHandler(userService, recapService)
	recommendationHandler := handlers.NewRecommendationHandler(userService, recommendationService)
	notificationHandler := handlers.NewNotificationHandler(userService, services.NewInboxService(thePG, log, eventRepo))

	schedulerHandler := handlers.NewAdminHandler(schedulerService)

	// Middleware
	identityMiddleware := middleware.NewIdentityMiddleware(log)
	adminMiddleware := middleware.NewAdminMiddleware(log, utils.GetEnv("ADMIN_API_KEY", "", log))

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		IdentityMiddleware:    identityMiddleware,
		AdminMiddleware:       adminMiddleware,
		FatigueHandler:        fatigueHandler,
		RecapHandler:          recapHandler,
		RecommendationHandler: recommendationHandler,
		NotificationHandler:   notificationHandler,
		AdminHandler:          schedulerHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
