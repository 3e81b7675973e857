package middleware

import (
	"fmt"
	"net/http"

	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

// 投稿表单中文字字段预留的大小
const formFieldAllowance = 1 << 20

// BodyLimitMiddleware 限制普通请求体大小，skipPaths 由 UploadBodyLimitMiddleware 单独限制
func BodyLimitMiddleware(settings *service.SettingsService, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		maxSizeMB := settings.GetInt(consts.ConfigMaxRequestBodySize)
		if maxSizeMB <= 0 {
			maxSizeMB = 2
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxSizeMB)*1024*1024)
		c.Next()
	}
}

// UploadBodyLimitMiddleware 投稿请求最多两张图片加表单字段
func UploadBodyLimitMiddleware(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := settings.GetInt(consts.ConfigMaxUploadSize)
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxBytes := 2*int64(maxSizeMB)*1024*1024 + formFieldAllowance

		if c.Request.ContentLength > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("图片大小不能超过 %dMB", maxSizeMB)})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
