package orders

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	adminOrders := router.Group("/admin/events/:eventId/seat-assignments")
	adminOrders.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminOrders.GET("", controller.ExportSeatAssignments)
		adminOrders.PUT("", controller.BulkAssignSeats)
	}
}
