package router

import (
	"github.com/TanakaMizukii/photoproject/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAccountRoutes(r *gin.Engine, authLimiter gin.HandlerFunc, h *handler.AccountHandler) {
	accounts := r.Group("/accounts")

	accounts.GET("/signup/", h.SignupForm)
	accounts.POST("/signup/", authLimiter, h.Signup)
	accounts.GET("/signup_success/", h.SignupSuccess)

	accounts.GET("/login/", h.LoginForm)
	accounts.POST("/login/", authLimiter, h.Login)

	accounts.GET("/logout/", h.LogoutConfirm)
	accounts.POST("/logout/", h.Logout)
}

func registerAPIRoutes(r *gin.Engine, authLimiter gin.HandlerFunc, accounts *handler.AccountHandler, photos *handler.PhotoHandler) {
	api := r.Group("/api")

	api.POST("/login", authLimiter, accounts.APILogin)
	api.GET("/categories", photos.ListCategoriesAPI)
}
