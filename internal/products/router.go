package products

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupProductRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	router.GET("/events/:eventId/products", controller.ListProducts)

	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.POST("/events/:eventId/products", controller.CreateProduct)
		admin.PUT("/subevents/:subeventId/products/:productId/override", controller.SetOverride)
	}
}
