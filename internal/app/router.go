package app

import (
	"retreat_screening_backend/docs"
	"retreat_screening_backend/internal/config"
	"retreat_screening_backend/internal/middleware"
	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.auth))
	{
		a.registerConsoleRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

// Public surface: health, login and the provider-facing webhooks. The cron
// endpoint is public in the routing sense but gated by a shared token.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)

		webhooks := public.Group("/webhooks")
		{
			webhooks.POST("/form-submission", c.webhook.FormSubmission)
			webhooks.POST("/booking", c.webhook.Booking)
		}

		cron := public.Group("/cron")
		cron.Use(middleware.CronTokenMiddleware(cfg.Webhook.CronToken))
		{
			cron.POST("/reprocess", c.webhook.Reprocess)
		}
	}
}

// Console surface: everything a logged-in screener or viewer works with.
// Mutations require the screener role; viewers get read-only access.
func (a *App) registerConsoleRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/applications", c.application.List)
	rg.GET("/applications/:id", c.application.Get)
	rg.GET("/applications/:id/attachments/:name", c.application.GetAttachment)

	rg.GET("/participants", c.participant.List)
	rg.GET("/participants/:id", c.participant.Get)

	rg.GET("/screenings", c.screening.List)
	rg.GET("/screenings/:id", c.screening.Get)

	rg.GET("/forms", c.form.List)
	rg.GET("/forms/:id/fields", c.form.ListFields)

	screener := rg.Group("/")
	screener.Use(middleware.RoleMiddleware(model.Screener))
	{
		screener.GET("/scoring-rules", c.scoringRule.List)

		screener.PATCH("/applications/:id", c.application.Update)
		screener.POST("/applications/:id/status", c.application.UpdateStatus)
		screener.POST("/applications/:id/rescore", c.application.Rescore)
		screener.POST("/applications/:id/attachments", c.application.UploadAttachment)

		screener.POST("/participants", c.participant.Create)
		screener.PATCH("/participants/:id", c.participant.Update)

		screener.POST("/screenings", c.screening.Create)
		screener.PATCH("/screenings/:id", c.screening.Update)

		screener.POST("/scoring-rules", c.scoringRule.Create)
		screener.PATCH("/scoring-rules/:id", c.scoringRule.Update)
		screener.DELETE("/scoring-rules/:id", c.scoringRule.Delete)
	}
}

// Admin surface: staff account management.
func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/users")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("", c.user.List)
		admin.POST("", c.user.Create)
		admin.GET("/:id", c.user.Get)
		admin.PATCH("/:id", c.user.Update)
		admin.DELETE("/:id", c.user.Delete)
	}
}
