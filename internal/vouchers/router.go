package vouchers

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVoucherRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		admin.POST("/events/:eventId/vouchers", controller.CreateVoucher)
		admin.GET("/vouchers/:code", controller.GetVoucher)
	}
}
