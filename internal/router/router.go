package router

import (
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/handler"
	adminhandler "github.com/TanakaMizukii/photoproject/internal/handler/admin"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/gin-gonic/gin"
)

const postPath = "/post/"

type Router struct {
	photos   *handler.PhotoHandler
	accounts *handler.AccountHandler
	system   *handler.SystemHandler
	admin    *adminhandler.Handler
	auth     *middleware.Authenticator
	settings *service.SettingsService
	media    *service.MediaStorage
}

func NewRouter(
	photos *handler.PhotoHandler,
	accounts *handler.AccountHandler,
	system *handler.SystemHandler,
	admin *adminhandler.Handler,
	auth *middleware.Authenticator,
	settings *service.SettingsService,
	media *service.MediaStorage,
) *Router {
	return &Router{
		photos:   photos,
		accounts: accounts,
		system:   system,
		admin:    admin,
		auth:     auth,
		settings: settings,
		media:    media,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	r.Use(rt.auth.Authenticate())
	// 投稿请求由 UploadBodyLimitMiddleware 单独限制
	r.Use(middleware.BodyLimitMiddleware(rt.settings, postPath))

	// 登录与注册共用同一个限流实例
	authLimiter := middleware.RateLimitMiddleware(rt.settings, "auth", consts.ConfigRateLimitAuthRPS, consts.ConfigRateLimitAuthBurst)

	registerPhotoRoutes(r, rt.photos, rt.settings)
	registerAccountRoutes(r, authLimiter, rt.accounts)
	registerAPIRoutes(r, authLimiter, rt.accounts, rt.photos)
	registerAdminRoutes(r, rt.admin)
	registerSystemRoutes(r, rt.system)
	registerMediaRoutes(r, rt.media, rt.settings)
}
