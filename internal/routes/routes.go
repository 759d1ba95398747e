package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lab-dashboard-server/internal/config"
	"lab-dashboard-server/internal/consolidate"
	"lab-dashboard-server/internal/handlers"
	"lab-dashboard-server/internal/metrics"
	"lab-dashboard-server/internal/middleware"
	"lab-dashboard-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, s store.Store, consolidator *consolidate.Consolidator, cfg *config.Config, logger zerolog.Logger) {
	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(s, consolidator, logger)
	dashboardHandler := handlers.NewDashboardHandler(s)

	// Webhook routes (shared-secret token required, checked before any
	// processing)
	webhooks := router.Group("/api/v1/webhooks")
	webhooks.Use(middleware.WebhookAuthMiddleware(cfg))
	{
		webhooks.POST("/patient-registration", webhookHandler.PatientRegistration)
		webhooks.POST("/bill-generation", webhookHandler.BillGeneration)
		webhooks.POST("/report-status", webhookHandler.ReportStatus)
		webhooks.POST("/sample-status", webhookHandler.SampleStatus)
	}

	// Dashboard read API
	api := router.Group("/api/v1")
	{
		api.GET("/patients", dashboardHandler.GetPatients)
		api.GET("/patients/:patientId", dashboardHandler.GetPatientByID)
		api.GET("/dashboard/stats", dashboardHandler.GetStats)
	}

	// Prometheus scrape endpoint
	router.GET("/metrics", metrics.Handler())

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
