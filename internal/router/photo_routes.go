package router

import (
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/handler"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

func registerPhotoRoutes(r *gin.Engine, h *handler.PhotoHandler, settings *service.SettingsService) {
	r.GET("/", h.Index)
	r.GET("/category/:id/", h.CategoryPosts)
	r.GET("/user/:id/", h.UserPosts)
	r.GET("/photo/:id/", h.Detail)
	r.GET("/post_done/", h.PostDone)

	authed := r.Group("/")
	authed.Use(middleware.LoginRequired())
	{
		uploadLimiter := middleware.RateLimitMiddleware(settings, "upload", consts.ConfigRateLimitUploadRPS, consts.ConfigRateLimitUploadBurst)

		authed.GET("/mypage/", h.MyPage)
		authed.GET(postPath, h.PostForm)
		authed.POST(postPath, uploadLimiter, middleware.UploadBodyLimitMiddleware(settings), h.CreatePost)
		authed.GET("/photo/:id/delete/", h.DeleteConfirm)
		authed.POST("/photo/:id/delete/", h.DeletePost)
	}
}
