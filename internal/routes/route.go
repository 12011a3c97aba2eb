package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/careerportal/internal/container"
	"github.com/joshua-takyi/careerportal/internal/handlers"
	"github.com/joshua-takyi/careerportal/internal/metrics"
	"github.com/joshua-takyi/careerportal/internal/middleware"
	"github.com/joshua-takyi/careerportal/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	metrics.Register()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authCfg := handlers.AuthConfig{FrontendURL: cfg.FrontendURL, SecureCookies: cfg.IsProduction()}
	auth := middleware.AuthMiddleware(container.TokenValidator, container.UserService, container.Logger, authCfg.SecureCookies)
	optionalAuth := middleware.OptionalAuth(container.TokenValidator, container.UserService, container.Logger)
	admin := middleware.RequireAdmin()

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "careerportal-api",
				"search":  container.Indexer.Enabled(),
			})
		})

		// public routes
		v1.POST("/signup", handlers.SignUp(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService, authCfg))
		v1.POST("/logout", handlers.Logout(authCfg))
		v1.POST("/refresh", handlers.RefreshSession(container.UserService, authCfg))
		v1.GET("/auth/google", handlers.GoogleAuth(container.UserService, authCfg))
		v1.GET("/auth/callback", handlers.GoogleAuthCallback(container.UserService, authCfg))

		v1.GET("/search", handlers.Search(container.ListingService))
		v1.POST("/resumes/import", handlers.ImportResume(container.ResumeService))

		eventRoutes := v1.Group("/events")
		{
			eventRoutes.GET("", handlers.ListEvents(container.EventService))
			eventRoutes.GET("/:id", handlers.GetEvent(container.EventService))
			eventRoutes.POST("/validate", handlers.ValidateEventStep(container.EventService))
			eventRoutes.POST("", optionalAuth, handlers.SubmitEvent(container.EventService))
			eventRoutes.POST("/banner", optionalAuth, handlers.UploadEventBanner(container.EventService))
		}
	}

	for _, kind := range models.ListingKinds {
		group := v1.Group("/" + kind.Collection())
		group.GET("", handlers.ListListings(container.ListingService, kind))
		group.GET("/:id", handlers.GetListing(container.ListingService, kind))
	}

	protected := v1.Group("/")
	protected.Use(auth)
	{
		protected.GET("/me", handlers.Me(container.UserService))
		protected.PATCH("/me", handlers.UpdateMe(container.UserService))
		protected.GET("/me/interactions", handlers.ListMyInteractions(container.InteractionService))
		protected.POST("/interactions", handlers.RecordInteraction(container.InteractionService))

		resumeRoutes := protected.Group("/resumes/me")
		{
			resumeRoutes.GET("", handlers.GetMyResume(container.ResumeService))
			resumeRoutes.PUT("", handlers.SaveMyResume(container.ResumeService))
			resumeRoutes.DELETE("", handlers.DeleteMyResume(container.ResumeService))
			resumeRoutes.GET("/pdf", handlers.DownloadResumePDF(container.ResumeService))
			resumeRoutes.POST("/summary", handlers.SuggestSummary(container.ResumeService))
		}
	}

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(admin)
	{
		adminRoutes.GET("/analytics", handlers.AnalyticsOverview(container.AnalyticsService))
		adminRoutes.GET("/interactions", handlers.ListAllInteractions(container.InteractionService))

		adminRoutes.GET("/users", handlers.ListUsers(container.UserService))
		adminRoutes.GET("/users/:id", handlers.GetUser(container.UserService))
		adminRoutes.PATCH("/users/:id/block", handlers.SetUserBlocked(container.UserService))
		adminRoutes.PATCH("/users/:id/role", handlers.SetUserRole(container.UserService))
		adminRoutes.DELETE("/users/:id", handlers.DeleteUser(container.UserService))

		adminRoutes.GET("/events", handlers.AdminListEvents(container.EventService))
		adminRoutes.GET("/events/:id", handlers.AdminGetEvent(container.EventService))
		adminRoutes.PATCH("/events/:id", handlers.UpdateEvent(container.EventService))
		adminRoutes.POST("/events/:id/approve", handlers.ApproveEvent(container.EventService))
		adminRoutes.DELETE("/events/:id", handlers.RejectEvent(container.EventService))
		adminRoutes.POST("/events/:id/banner", handlers.SetEventBanner(container.EventService))

		for _, kind := range models.ListingKinds {
			group := adminRoutes.Group("/" + kind.Collection())
			group.POST("", handlers.CreateListing(container.ListingService, kind))
			group.PATCH("/:id", handlers.UpdateListing(container.ListingService, kind))
			group.DELETE("/:id", handlers.DeleteListing(container.ListingService, kind))
			group.POST("/:id/logo", handlers.UploadListingLogo(container.ListingService, kind))
		}
	}

	return r
}
