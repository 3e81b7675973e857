package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/db"
	"github.com/TanakaMizukii/photoproject/internal/di"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/web"

	"github.com/gin-gonic/gin"
)

func main() {
	configDir := flag.String("config-dir", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	config.InitConfig(*configDir)
	gin.SetMode(config.Get().Server.Mode)

	gormDB := db.InitDB()
	app, err := di.InitializeApplication(gormDB)
	if err != nil {
		log.Fatalf("❌ 依赖初始化失败: %v", err)
	}
	defer app.Notifier.Close()
	defer func() {
		if err := service.CloseRedisClient(); err != nil {
			log.Printf("⚠️ 关闭 Redis 连接失败: %v", err)
		}
	}()

	if err := app.Settings.InitializeSettings(); err != nil {
		log.Fatalf("❌ 初始化系统设置失败: %v", err)
	}
	if err := app.Auth.EnsureAdmin(config.Get().Admin); err != nil {
		log.Fatalf("❌ 初始化管理员账号失败: %v", err)
	}

	ensureMediaDir(app.Media.Root())

	r := gin.Default()
	if err := setupRenderer(r, app.Media); err != nil {
		log.Fatalf("❌ 模板加载失败: %v", err)
	}
	applyTrustedProxies(r, config.Get().Server.TrustedProxies)
	app.Router.Init(r)
	setupStaticAssets(r, GetStaticAssets())
	r.NoRoute(getNoRouteHandler(app.Settings))

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage()

	srv := &http.Server{
		Addr:              ":" + config.Get().Server.Port,
		Handler:           middleware.WrapCORS(r, config.SplitList(config.Get().Server.CORSOrigins)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ 服务强制关闭: %v", err)
		return
	}
	log.Println("✅ 服务已退出")
}

func setupRenderer(r *gin.Engine, media *service.MediaStorage) error {
	renderer, err := web.NewRenderer(web.Funcs(media.URL))
	if err != nil {
		return err
	}
	r.HTMLRender = renderer
	return nil
}

// applyTrustedProxies 空值表示不信任任何代理，配置无效时同样回退为不信任
func applyTrustedProxies(r *gin.Engine, raw string) {
	proxies := config.SplitList(raw)
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Printf("⚠️ trusted_proxies 配置无效，已禁用代理信任: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
}

func setupStaticAssets(r *gin.Engine, assets fs.FS) {
	if assets == nil {
		log.Println("⚠️ 未找到静态资源目录，样式文件将不可用")
		return
	}
	r.StaticFS("/static", http.FS(assets))
}

// getNoRouteHandler API 路径返回 JSON，其余返回 404 页面
func getNoRouteHandler(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/admin/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API not found"})
			return
		}
		c.HTML(http.StatusNotFound, web.ErrorPage, gin.H{
			"SiteName": settings.GetString(consts.ConfigSiteName),
			"Title":    "404",
			"Status":   http.StatusNotFound,
			"Message":  "页面不存在",
		})
	}
}

func ensureMediaDir(mediaPath string) {
	checkSecurePath(mediaPath)
	if err := os.MkdirAll(filepath.Join(mediaPath, consts.PhotoUploadDir), 0755); err != nil {
		log.Fatal("无法创建 media 目录: ", err)
	}
}

func printWelcomeMessage() {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   📷  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️  数据库   : %s\n", config.Get().Database.Type)
	fmt.Printf(" │   🔥  服务端口 : %s\n", config.Get().Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	routes := r.Routes()
	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, _ := json.MarshalIndent(exportList, "", "  ")
	if err := os.WriteFile("routes.json", file, 0644); err != nil {
		log.Printf("❌ 导出路由失败: %v", err)
		return
	}
	log.Println("✅ 路由已成功导出到 routes.json")
}

// checkSecurePath media 目录不能指向项目根目录或源码目录
func checkSecurePath(path string) {
	if err := validateMediaPath(path); err != nil {
		log.Fatalf("❌ 安全配置错误: %v", err)
	}
}

func validateMediaPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	if absPath == cwd {
		return fmt.Errorf("media 目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// 项目目录之外的路径不做限制
		return nil
	}

	allowedDirs := []string{"uploads", "media", "public", "tmp"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("media 目录 '%s' 必须位于项目根目录下的安全子目录中 (如 %v)", path, allowedDirs)
}
