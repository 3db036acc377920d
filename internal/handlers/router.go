package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GopinathBalasubramanian/eduactivity/internal/models"
	"github.com/GopinathBalasubramanian/eduactivity/internal/services"
	"github.com/GopinathBalasubramanian/eduactivity/internal/utils"
)

type HandlerManager struct {
	serviceManager services.ServiceManager
	logger         utils.Logger

	userHandler         *UserHandler
	adminHandler        *AdminHandler
	dashboardHandler    *DashboardHandler
	providerHandler     *ProviderHandler
	catalogHandler      *CatalogHandler
	bookingHandler      *BookingHandler
	reviewHandler       *ReviewHandler
	categoryHandler     *CategoryHandler
	notificationHandler *NotificationHandler
	chatHandler         *ChatHandler
	subscriptionHandler *SubscriptionHandler
	authMiddleware      *JWTAuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		serviceManager:      serviceManager,
		logger:              logger,
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Admin(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		providerHandler:     NewProviderHandler(serviceManager.Provider(), logger),
		catalogHandler:      NewCatalogHandler(serviceManager.Catalog(), logger),
		bookingHandler:      NewBookingHandler(serviceManager.Booking(), logger),
		reviewHandler:       NewReviewHandler(serviceManager.Review(), logger),
		categoryHandler:     NewCategoryHandler(serviceManager.Category(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		chatHandler:         NewChatHandler(serviceManager.Chat(), logger),
		subscriptionHandler: NewSubscriptionHandler(serviceManager.Subscription(), serviceManager.SearchAlert(), logger),
		authMiddleware:      NewJWTAuthMiddleware(serviceManager.User(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	auth := hm.authMiddleware.AuthMiddleware()
	requireAdmin := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)
	requireProvider := hm.authMiddleware.RequireRoleMiddleware(models.RoleProvider)

	api := router.Group("/api")
	// public endpoints still see the caller when a token is sent
	api.Use(hm.authMiddleware.OptionalAuthMiddleware())

	users := api.Group("/users")
	{
		users.POST("/register", hm.userHandler.Register)
		users.POST("/login", hm.userHandler.Login)
		users.POST("/token/refresh", hm.userHandler.RefreshToken)
		users.POST("/password-reset", hm.userHandler.PasswordReset)
		users.POST("/password-reset-confirm", hm.userHandler.PasswordResetConfirm)

		users.GET("/profile", auth, hm.userHandler.GetProfile)
		users.PUT("/profile", auth, hm.userHandler.UpdateProfile)
		users.PATCH("/profile", auth, hm.userHandler.UpdateProfile)
		users.POST("/change-password", auth, hm.userHandler.ChangePassword)
		users.POST("/verify-email", auth, hm.userHandler.VerifyEmail)

		admin := users.Group("/admin", auth, requireAdmin)
		{
			admin.GET("/users", hm.adminHandler.ListUsers)
			admin.GET("/users/export", hm.adminHandler.ExportUsers)
			admin.GET("/providers", hm.adminHandler.ListProviders)
			admin.GET("/providers/export", hm.adminHandler.ExportProviders)
			admin.POST("/providers/:id/approve", hm.adminHandler.ApproveProvider)
			admin.POST("/providers/:id/reject", hm.adminHandler.RejectProvider)
			admin.GET("/stats", hm.dashboardHandler.GetDashboardStats)
		}
	}

	providers := api.Group("/providers")
	{
		providers.GET("", hm.providerHandler.ListProviders)
		providers.POST("", auth, hm.providerHandler.CreateProvider)
		providers.GET("/search", hm.providerHandler.SearchProviders)
		providers.GET("/my", auth, hm.providerHandler.GetMyProvider)
		providers.POST("/my", auth, hm.providerHandler.UpsertMyProvider)

		providers.GET("/:id", hm.providerHandler.GetProvider)
		providers.PUT("/:id", auth, hm.providerHandler.ReplaceProvider)
		providers.PATCH("/:id", auth, hm.providerHandler.UpdateProvider)
		providers.DELETE("/:id", auth, hm.providerHandler.DeleteProvider)
		providers.POST("/:id/photos", auth, hm.providerHandler.AddPhoto)
		providers.POST("/:id/certificates", auth, hm.providerHandler.AddCertificate)
		providers.GET("/:id/reviews", hm.reviewHandler.ListProviderReviews)
		providers.POST("/:id/reviews", auth, hm.reviewHandler.CreateReview)

		catalog := providers.Group("", auth)
		{
			catalog.GET("/services", hm.catalogHandler.ListServices)
			catalog.POST("/services", hm.catalogHandler.CreateService)
			catalog.GET("/services/:id", hm.catalogHandler.GetService)
			catalog.PUT("/services/:id", hm.catalogHandler.ReplaceService)
			catalog.PATCH("/services/:id", hm.catalogHandler.UpdateService)
			catalog.DELETE("/services/:id", hm.catalogHandler.DeleteService)
			catalog.GET("/services/:id/pricing", hm.catalogHandler.ListPricing)
			catalog.POST("/services/:id/pricing", hm.catalogHandler.CreatePricing)
			catalog.GET("/pricing/:id", hm.catalogHandler.GetPricing)
			catalog.PUT("/pricing/:id", hm.catalogHandler.ReplacePricing)
			catalog.PATCH("/pricing/:id", hm.catalogHandler.UpdatePricing)
			catalog.DELETE("/pricing/:id", hm.catalogHandler.DeletePricing)

			catalog.GET("/bookings", hm.bookingHandler.ListBookings)
			catalog.POST("/bookings", hm.bookingHandler.CreateBooking)
			catalog.GET("/bookings/:id", hm.bookingHandler.GetBooking)
			catalog.PUT("/bookings/:id", hm.bookingHandler.UpdateBooking)
			catalog.PATCH("/bookings/:id", hm.bookingHandler.UpdateBooking)
			catalog.DELETE("/bookings/:id", hm.bookingHandler.DeleteBooking)
		}
	}

	reviews := api.Group("/reviews", auth)
	{
		reviews.PUT("/:id", hm.reviewHandler.UpdateReview)
		reviews.PATCH("/:id", hm.reviewHandler.UpdateReview)
		reviews.DELETE("/:id", hm.reviewHandler.DeleteReview)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", hm.categoryHandler.ListCategories)
		categories.GET("/:id", hm.categoryHandler.GetCategory)
		categories.POST("", auth, hm.categoryHandler.CreateCategory)
		categories.PUT("/:id", auth, hm.categoryHandler.UpdateCategory)
		categories.PATCH("/:id", auth, hm.categoryHandler.UpdateCategory)
		categories.DELETE("/:id", auth, hm.categoryHandler.DeleteCategory)
	}

	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("", hm.notificationHandler.ListNotifications)
		notifications.GET("/unread-count", hm.notificationHandler.UnreadCount)
		notifications.POST("/read-all", hm.notificationHandler.MarkAllRead)
		notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
	}

	chats := api.Group("/chats", auth)
	{
		chats.GET("", hm.chatHandler.ListThreads)
		chats.GET("/conversation", hm.chatHandler.Conversation)
		chats.POST("", hm.chatHandler.SendMessage)
		chats.POST("/:id/read", hm.chatHandler.MarkRead)
	}

	subscriptions := api.Group("/subscriptions", auth, requireProvider)
	{
		subscriptions.GET("", hm.subscriptionHandler.ListSubscriptions)
		subscriptions.POST("", hm.subscriptionHandler.CreateSubscription)
		subscriptions.POST("/:id/cancel", hm.subscriptionHandler.CancelSubscription)
	}

	alerts := api.Group("/search-alerts", auth)
	{
		alerts.GET("", hm.subscriptionHandler.ListSearchAlerts)
		alerts.POST("", hm.subscriptionHandler.CreateSearchAlert)
		alerts.PATCH("/:id", hm.subscriptionHandler.UpdateSearchAlert)
		alerts.DELETE("/:id", hm.subscriptionHandler.DeleteSearchAlert)
	}
}

// HealthCheck pings the database and, when configured, redis
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		utils.GetLogger(c, hm.logger).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "eduactivity",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
