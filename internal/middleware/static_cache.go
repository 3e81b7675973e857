package middleware

import (
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为 media 文件添加 Cache-Control。
// 文件名是随机 uuid，内容不会变化，可以长期缓存。
func StaticCacheMiddleware(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cc := settings.GetString(consts.ConfigStaticCacheControl); cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
