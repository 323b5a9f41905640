package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rockodragon/wonderwall-backend/internal/config"
	"github.com/rockodragon/wonderwall-backend/internal/http/handlers"
	"github.com/rockodragon/wonderwall-backend/internal/http/middleware"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	artifactHandler *handlers.ArtifactHandler,
	wonderingHandler *handlers.WonderingHandler,
	eventHandler *handlers.EventHandler,
	jobHandler *handlers.JobHandler,
	messageHandler *handlers.MessageHandler,
	favoriteHandler *handlers.FavoriteHandler,
	inviteHandler *handlers.InviteHandler,
	notificationHandler *handlers.NotificationHandler,
	moderationHandler *handlers.ModerationHandler,
	mediaHandler *handlers.MediaHandler,
	proxyHandler *handlers.ProxyHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", authHandler.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/profiles", profileHandler.Search)
	api.GET("/profiles/:id", middleware.UUIDValidator("id"), profileHandler.GetByID)
	api.GET("/users/:id/artifacts", middleware.UUIDValidator("id"), artifactHandler.ListByUser)
	api.GET("/artifacts/:id", middleware.UUIDValidator("id"), artifactHandler.GetByID)
	api.GET("/artifacts/:id/media", middleware.UUIDValidator("id"), artifactHandler.ListMedia)
	api.GET("/wonderings", wonderingHandler.List)
	api.GET("/wonderings/:id", middleware.UUIDValidator("id"), wonderingHandler.GetByID)
	api.GET("/events", eventHandler.List)
	api.GET("/events/:id", middleware.UUIDValidator("id"), eventHandler.GetByID)
	api.GET("/jobs", jobHandler.List)
	api.GET("/geocode", proxyHandler.Geocode)

	// Счётчик избранного публичный; проверка отвечает false анонимному пользователю.
	optionalAuth := api.Group("/favorites")
	optionalAuth.Use(middleware.OptionalAuthMiddleware(tokenManager))
	{
		optionalAuth.GET("/check", favoriteHandler.Check)
		optionalAuth.GET("/count", favoriteHandler.Count)
	}

	analyticsGroup := api.Group("/analytics")
	analyticsGroup.Use(middleware.OptionalAuthMiddleware(tokenManager))
	{
		analyticsGroup.POST("/events", proxyHandler.TrackEvent)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profiles/me", profileHandler.GetMe)
		protected.PUT("/profiles/me", profileHandler.UpdateMe)

		protected.POST("/artifacts", artifactHandler.Create)
		protected.PUT("/artifacts/:id", middleware.UUIDValidator("id"), artifactHandler.Update)
		protected.DELETE("/artifacts/:id", middleware.UUIDValidator("id"), artifactHandler.Delete)
		protected.POST("/artifacts/:id/media", middleware.UUIDValidator("id"), artifactHandler.AttachMedia)

		protected.POST("/wonderings", wonderingHandler.Create)
		protected.DELETE("/wonderings/:id", middleware.UUIDValidator("id"), wonderingHandler.Delete)

		protected.POST("/events", eventHandler.Create)
		protected.PUT("/events/:id", middleware.UUIDValidator("id"), eventHandler.Update)
		protected.DELETE("/events/:id", middleware.UUIDValidator("id"), eventHandler.Delete)
		protected.POST("/events/:id/rsvp", middleware.UUIDValidator("id"), eventHandler.RSVP)
		protected.GET("/events/:id/rsvp", middleware.UUIDValidator("id"), eventHandler.GetMyRSVP)
		protected.DELETE("/events/:id/rsvp", middleware.UUIDValidator("id"), eventHandler.CancelRSVP)
		protected.GET("/events/:id/rsvps", middleware.UUIDValidator("id"), eventHandler.ListRSVPs)
		protected.POST("/events/:id/rsvps/:user_id/decision", middleware.UUIDValidator("id"), middleware.UUIDValidator("user_id"), eventHandler.DecideRSVP)

		protected.POST("/jobs", jobHandler.Create)
		protected.GET("/jobs/my", jobHandler.ListMine)
		protected.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.GetByID)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Update)
		protected.POST("/jobs/:id/close", middleware.UUIDValidator("id"), jobHandler.Close)
		protected.DELETE("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Delete)

		protected.POST("/messages", messageHandler.Send)
		protected.GET("/conversations", messageHandler.ListConversations)
		protected.GET("/conversations/:id/messages", middleware.UUIDValidator("id"), messageHandler.ListMessages)
		protected.POST("/conversations/:id/read", middleware.UUIDValidator("id"), messageHandler.MarkRead)

		protected.POST("/favorites/toggle", favoriteHandler.Toggle)
		protected.GET("/favorites/my", favoriteHandler.My)

		protected.GET("/invites", inviteHandler.ListMine)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		protected.POST("/reports", moderationHandler.Report)
		protected.GET("/reports/my", moderationHandler.ListMyReports)
		protected.POST("/blocks/:id", middleware.UUIDValidator("id"), moderationHandler.Block)
		protected.DELETE("/blocks/:id", middleware.UUIDValidator("id"), moderationHandler.Unblock)
		protected.GET("/blocks", moderationHandler.ListBlocks)

		protected.POST("/media/photos", mediaHandler.UploadPhoto)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.DeleteMedia)
	}

	return r
}
