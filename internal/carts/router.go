package carts

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	cart := router.Group("/events/:eventId/cart")
	cart.Use(middleware.CartIdentity())
	{
		cart.GET("", controller.GetCart)
		cart.POST("/positions", controller.AddPosition)
		cart.DELETE("/positions/:positionId", controller.RemovePosition)
		cart.GET("/readiness", controller.CheckoutReadiness)
	}
}
