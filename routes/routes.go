package routes

import (
	"net/http"
	"time"

	"airmax/handlers"
	"airmax/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the booking webhook endpoints.
func RegisterWebhookRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	api := r.Group("/webhooks")
	{
		api.POST("/bookings", wh.ReceiveBooking)
	}
}

// RegisterAdminRoutes sets up endpoints for inspecting archived webhooks.
func RegisterAdminRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.GET("/webhooks", wh.ListArchivedWebhooks)
		adminGroup.GET("/webhooks/:id", wh.GetArchivedWebhook)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterWebhookRoutes(r, wh)
	RegisterAdminRoutes(r, wh)
	RegisterHealthRoute(r)
}
