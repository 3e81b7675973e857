package router

import (
	adminhandler "github.com/TanakaMizukii/photoproject/internal/handler/admin"
	"github.com/TanakaMizukii/photoproject/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(r *gin.Engine, h *adminhandler.Handler) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AdminRequired())

	adminGroup.GET("/categories", h.ListCategories)
	adminGroup.POST("/categories", h.CreateCategory)
	adminGroup.DELETE("/categories/:id", h.DeleteCategory)

	adminGroup.DELETE("/users/:id", h.DeleteUser)

	adminGroup.GET("/settings", h.GetSettings)
	adminGroup.PATCH("/settings", h.UpdateSettings)
}
