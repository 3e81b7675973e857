package router

import (
	"github.com/TanakaMizukii/photoproject/internal/handler"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

func registerSystemRoutes(r *gin.Engine, h *handler.SystemHandler) {
	r.GET("/healthz", h.Healthz)
}

// registerMediaRoutes 使用带缓存控制的静态文件服务，不列出目录
func registerMediaRoutes(r *gin.Engine, media *service.MediaStorage, settings *service.SettingsService) {
	r.Group(media.URLPrefix(), middleware.StaticCacheMiddleware(settings)).
		StaticFS("", gin.Dir(media.Root(), false))
}
