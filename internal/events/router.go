package events

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.ListEvents)
		publicEvents.GET("/:eventId", controller.GetEvent)
		publicEvents.GET("/:eventId/subevents", controller.ListSubEvents)
	}

	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.PUT("/:eventId/seating-plan", controller.SetSeatingPlan)
		adminEvents.POST("/:eventId/subevents", controller.CreateSubEvent)
	}
}
