package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/common/httpx"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/web"

	"github.com/gin-gonic/gin"
)

var offered = []string{gin.MIMEHTML, gin.MIMEJSON}

// prefersJSON 未声明 Accept 的请求按 HTML 处理
func prefersJSON(c *gin.Context) bool {
	return c.NegotiateFormat(offered...) == gin.MIMEJSON
}

// pageData 所有页面共用的模板数据
func pageData(c *gin.Context, settings *service.SettingsService, title string) gin.H {
	data := gin.H{
		"SiteName": settings.GetString(consts.ConfigSiteName),
		"Title":    title,
	}
	if identity, ok := middleware.CurrentIdentity(c); ok {
		data["Identity"] = &identity
	}
	return data
}

// respond 按 Accept 输出页面或 JSON
func respond(c *gin.Context, status int, page string, htmlData gin.H, jsonData any) {
	c.Negotiate(status, gin.Negotiate{
		Offered:  offered,
		HTMLName: page,
		HTMLData: htmlData,
		JSONData: jsonData,
	})
}

// renderError 把服务错误映射为错误页或 JSON
func renderError(c *gin.Context, settings *service.SettingsService, err error, fallback string) {
	if prefersJSON(c) {
		httpx.WriteServiceError(c, err, fallback)
		return
	}

	status := http.StatusInternalServerError
	message := fallback
	if serviceErr, ok := common.AsServiceError(err); ok {
		status = httpx.StatusFor(serviceErr.Code)
		message = serviceErr.Message
	} else {
		log.Printf("unexpected handler error: %v", err)
	}

	data := pageData(c, settings, strconv.Itoa(status))
	data["Status"] = status
	data["Message"] = message
	c.HTML(status, web.ErrorPage, data)
}

// parseID 路由中的 id 只接受正整数，否则视为页面不存在
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *gin.Context, settings *service.SettingsService) {
	renderError(c, settings, common.NewNotFoundError("页面不存在"), "页面不存在")
}
