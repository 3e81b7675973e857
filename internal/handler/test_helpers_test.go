package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/testutils"
	"github.com/TanakaMizukii/photoproject/internal/web"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	settings *service.SettingsService
	auth     *service.AuthService
	photos   *service.PhotoService
	media    *service.MediaStorage
	engine   *gin.Engine
}

// setupTestEnv 按生产路由的方式挂载 handler
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewCategoryRepository(gdb),
		repository.NewPhotoRepository(gdb),
		repository.NewSettingRepository(gdb),
	)

	settings := service.NewSettingsService(repos.Setting)
	if err := settings.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	media := service.NewMediaStorage(t.TempDir(), "/media/")
	auth := service.NewAuthService(repos.User, settings)
	users := service.NewUserService(repos.User, media)
	categories := service.NewCategoryService(repos.Category)
	photos := service.NewPhotoService(repos.Photo, repos.Category, repos.User, settings, media, nil)
	sessions := middleware.NewSessionManager(config.Get().Session)
	authenticator := middleware.NewAuthenticator(sessions, users)

	renderer, err := web.NewRenderer(web.Funcs(media.URL))
	if err != nil {
		t.Fatalf("加载模板失败: %v", err)
	}

	ph := NewPhotoHandler(photos, categories, users, settings, media)
	ah := NewAccountHandler(auth, sessions, settings)
	sh := NewSystemHandler(gdb)

	r := gin.New()
	r.HTMLRender = renderer
	r.Use(authenticator.Authenticate())

	r.GET("/", ph.Index)
	r.GET("/category/:id/", ph.CategoryPosts)
	r.GET("/user/:id/", ph.UserPosts)
	r.GET("/photo/:id/", ph.Detail)
	r.GET("/post_done/", ph.PostDone)
	r.GET("/api/categories", ph.ListCategoriesAPI)
	r.GET("/healthz", sh.Healthz)

	authed := r.Group("/", middleware.LoginRequired())
	authed.GET("/mypage/", ph.MyPage)
	authed.GET("/post/", ph.PostForm)
	authed.POST("/post/", middleware.UploadBodyLimitMiddleware(settings), ph.CreatePost)
	authed.GET("/photo/:id/delete/", ph.DeleteConfirm)
	authed.POST("/photo/:id/delete/", ph.DeletePost)

	r.GET("/accounts/signup/", ah.SignupForm)
	r.POST("/accounts/signup/", ah.Signup)
	r.GET("/accounts/signup_success/", ah.SignupSuccess)
	r.GET("/accounts/login/", ah.LoginForm)
	r.POST("/accounts/login/", ah.Login)
	r.GET("/accounts/logout/", ah.LogoutConfirm)
	r.POST("/accounts/logout/", ah.Logout)
	r.POST("/api/login", ah.APILogin)

	return &testEnv{db: gdb, settings: settings, auth: auth, photos: photos, media: media, engine: r}
}

func (e *testEnv) createUser(t *testing.T, username, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码失败: %v", err)
	}
	u := &model.User{Username: username, Email: username + "@example.com", Password: string(hashed)}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func (e *testEnv) createCategory(t *testing.T, title string) *model.Category {
	t.Helper()
	c := &model.Category{Title: title}
	if err := e.db.Create(c).Error; err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	return c
}

func (e *testEnv) insertPost(t *testing.T, userID, categoryID uint, title string, at time.Time) *model.PhotoPost {
	t.Helper()
	p := &model.PhotoPost{UserID: userID, CategoryID: categoryID, Title: title, Comment: "c", Image1: "photos/x.png", PostedAt: at}
	if err := e.db.Create(p).Error; err != nil {
		t.Fatalf("创建帖子失败: %v", err)
	}
	return p
}

func (e *testEnv) tokenFor(t *testing.T, u *model.User) string {
	t.Helper()
	token, err := e.auth.IssueLoginToken(u)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	return token
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func acceptJSON() requestOption {
	return func(r *http.Request) { r.Header.Set("Accept", "application/json") }
}

func acceptHTML() requestOption {
	return func(r *http.Request) { r.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8") }
}

func (e *testEnv) do(method, target string, body io.Reader, contentType string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(target string, opts ...requestOption) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, target, nil, "", opts...)
}

func (e *testEnv) postForm(target string, values url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, target, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", opts...)
}

type uploadFile struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("写入表单字段失败: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("创建表单文件失败: %v", err)
		}
		_, _ = part.Write(f.content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("关闭 multipart writer 失败: %v", err)
	}
	return body, w.FormDataContentType()
}

func (e *testEnv) countPosts(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&model.PhotoPost{}).Count(&n).Error; err != nil {
		t.Fatalf("统计帖子失败: %v", err)
	}
	return n
}
