package mappings

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMappingRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	adminMappings := router.Group("/admin/events/:eventId/mappings")
	adminMappings.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminMappings.GET("", controller.ListMappings)
		adminMappings.PUT("", controller.ReplaceMappings)
	}
}
