package router

import (
	"time"

	"shiftwatch/config"
	"shiftwatch/internal/handler"
	"shiftwatch/internal/middleware"
	"shiftwatch/internal/repository"
	"shiftwatch/internal/service"
	"shiftwatch/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires the engine once at process start: repositories into services,
// services into handlers, handlers onto routes. Nothing here is global.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.Engine.RateLimitPerMinute, time.Minute)))

	// Repositories
	notificationRepo := repository.NewNotificationRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	escalationRepo := repository.NewEscalationRepository(db)

	feedHub := ws.NewHub()

	// Services
	prefSvc := service.NewPreferenceService(preferenceRepo)
	escalationSvc := service.NewEscalationService(escalationRepo, notificationRepo, prefSvc)
	notificationSvc := service.NewNotificationService(notificationRepo, prefSvc, escalationSvc, feedHub)
	digestSvc := service.NewDigestService(notificationRepo)

	// Handlers
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	preferenceHandler := handler.NewPreferenceHandler(prefSvc)
	escalationHandler := handler.NewEscalationHandler(escalationSvc, &cfg.Engine)
	digestHandler := handler.NewDigestHandler(digestSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	producerMw := middleware.RequireRole("SERVICE")

	api := r.Group("/api/v1")
	{
		// Producer collaborators raise notifications and escalations.
		producers := api.Group("")
		producers.Use(authMw, producerMw)
		{
			producers.POST("/notifications", notificationHandler.Create)
			producers.POST("/escalations", escalationHandler.Create)
			producers.POST("/escalations/:id/resolve", escalationHandler.Resolve)
			producers.POST("/escalations/sweep", escalationHandler.Sweep)
			producers.GET("/notifications/:id/escalations", escalationHandler.ListForNotification)
			producers.POST("/digests", digestHandler.Create)
		}

		// Recipients act on their own records.
		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.POST("/notifications/:id/acknowledge", notificationHandler.Acknowledge)
			me.GET("/preferences", preferenceHandler.Get)
			me.PATCH("/preferences", preferenceHandler.Update)
			me.GET("/digest", digestHandler.GetMine)
			me.GET("/stats", notificationHandler.Stats)
		}
	}

	r.GET("/ws/feed", ws.UpgradeFeedWS(&cfg.JWT, feedHub))

	return r
}
