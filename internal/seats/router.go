package seats

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public picker surface, keyed by the anonymous cart identity.
	seatmap := router.Group("/events/:eventId/seatmap")
	seatmap.Use(middleware.CartIdentity())
	{
		seatmap.GET("", controller.GetSeatmap)
		seatmap.POST("/assign", controller.AssignSeats)
	}

	adminSeats := router.Group("/admin/events/:eventId/seats")
	adminSeats.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminSeats.PUT("/:seatGuid/blocked", controller.SetBlocked)
	}
}
