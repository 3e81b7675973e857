package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/testutils"

	"github.com/gin-gonic/gin"
)

// 测试内容：为 main 包测试初始化配置环境并在结束时清理。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	tmpDir, err := os.MkdirTemp("", "photo-main-config-*")
	if err != nil {
		panic(err)
	}

	envs := testutils.SetTestEnv()
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

func newTestSettings(t *testing.T) *service.SettingsService {
	t.Helper()
	gdb := testutils.SetupDB(t)
	settings := service.NewSettingsService(repository.NewSettingRepository(gdb))
	if err := settings.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	return settings
}

// 测试内容：验证 exportAPI 会写出有效的 routes.json 路由列表。
func TestExportAPI_WritesRoutesJSON(t *testing.T) {
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	defer func() { _ = os.Chdir(oldwd) }()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	exportAPI(r)

	b, err := os.ReadFile("routes.json")
	if err != nil {
		t.Fatalf("期望 routes.json: %v", err)
	}
	var routes []map[string]any
	if err := json.Unmarshal(b, &routes); err != nil {
		t.Fatalf("JSON 无效: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("期望 1 条路由，实际为 %d", len(routes))
	}
}

// 测试内容：验证 NoRoute 对 API 路径返回 JSON 404，对页面路径渲染 404 错误页。
func TestGetNoRouteHandler(t *testing.T) {
	settings := newTestSettings(t)
	r := gin.New()
	if err := setupRenderer(r, service.NewMediaStorage(t.TempDir(), "/media/")); err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}
	r.NoRoute(getNoRouteHandler(settings))

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if w1.Code != http.StatusNotFound || !strings.Contains(w1.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("期望 JSON 404，实际为 %d %q", w1.Code, w1.Header().Get("Content-Type"))
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/nope/", nil))
	if w2.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d", w2.Code)
	}
	if !strings.Contains(w2.Body.String(), "页面不存在") {
		t.Fatalf("期望错误页包含提示信息，实际为 %q", w2.Body.String())
	}
}

// 测试内容：验证 trusted_proxies 配置对 ClientIP 的影响：空值禁用、有效列表生效、无效列表回退。
func TestApplyTrustedProxies(t *testing.T) {
	getClientIP := func(raw string) string {
		r := gin.New()
		applyTrustedProxies(r, raw)
		r.GET("/ip", func(c *gin.Context) {
			c.String(http.StatusOK, c.ClientIP())
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", "203.0.113.10, 10.0.0.1")
		r.ServeHTTP(w, req)
		return strings.TrimSpace(w.Body.String())
	}

	if got := getClientIP(""); got != "10.0.0.1" {
		t.Fatalf("禁用可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
	if got := getClientIP("127.0.0.1,10.0.0.0/8"); got != "203.0.113.10" {
		t.Fatalf("启用可信代理时 ClientIP 应取 X-Forwarded-For，实际为 %q", got)
	}
	if got := getClientIP("not-a-cidr"); got != "10.0.0.1" {
		t.Fatalf("无效可信代理时 ClientIP 应为 RemoteAddr，实际为 %q", got)
	}
}

// 测试内容：验证静态资源挂载到 /static，缺失时不注册路由。
func TestSetupStaticAssets(t *testing.T) {
	assets := fstest.MapFS{"style.css": &fstest.MapFile{Data: []byte("body{}")}}

	r := gin.New()
	setupStaticAssets(r, assets)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if w.Code != http.StatusOK || w.Body.String() != "body{}" {
		t.Fatalf("期望返回样式文件，实际为 %d %q", w.Code, w.Body.String())
	}

	empty := gin.New()
	setupStaticAssets(empty, nil)
	if len(empty.Routes()) != 0 {
		t.Fatalf("期望无静态资源时不注册路由")
	}
}

// 测试内容：验证 media 目录的安全检查：根目录与源码目录被拒绝，uploads 下的目录被允许。
func TestValidateMediaPath(t *testing.T) {
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	defer func() { _ = os.Chdir(oldwd) }()

	if err := validateMediaPath("."); err == nil {
		t.Fatalf("期望项目根目录被拒绝")
	}
	if err := validateMediaPath("internal/media"); err == nil {
		t.Fatalf("期望源码目录被拒绝")
	}
	if err := validateMediaPath(filepath.Join("uploads", "media")); err != nil {
		t.Fatalf("期望 uploads/media 被允许: %v", err)
	}
}

// 测试内容：验证 ensureMediaDir 会创建 photos 子目录。
func TestEnsureMediaDir_CreatesPhotosDir(t *testing.T) {
	tmp := t.TempDir()
	oldwd, _ := os.Getwd()
	_ = os.Chdir(tmp)
	defer func() { _ = os.Chdir(oldwd) }()

	ensureMediaDir(filepath.Join("uploads", "media"))
	if info, err := os.Stat(filepath.Join("uploads", "media", "photos")); err != nil || !info.IsDir() {
		t.Fatalf("期望 photos 目录存在: %v", err)
	}
}

// 测试内容：验证欢迎信息打印函数在测试配置下可执行。
func TestPrintWelcomeMessage(t *testing.T) {
	printWelcomeMessage()
}
