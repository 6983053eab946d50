package plans

import (
	"seatmap/internal/shared/config"
	"seatmap/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPlanRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	adminPlans := router.Group("/admin/plans")
	adminPlans.Use(middleware.JWTAuth(cfg), middleware.RequireAdmin())
	{
		adminPlans.POST("", controller.CreatePlan)
		adminPlans.GET("", controller.ListPlans)
		adminPlans.GET("/:planId", controller.GetPlan)
		adminPlans.PUT("/:planId", controller.UpdatePlan)
		adminPlans.DELETE("/:planId", controller.DeletePlan)
		adminPlans.POST("/:planId/copy", controller.CopyPlan)
	}
}
