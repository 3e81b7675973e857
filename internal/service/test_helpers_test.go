package service

import (
	"bytes"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/notify"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/testutils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.PostEvent
}

func (n *recordingNotifier) PostCreated(event notify.PostEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Close() {}

type testEnv struct {
	db         *gorm.DB
	repos      *repository.Repositories
	settings   *SettingsService
	auth       *AuthService
	users      *UserService
	categories *CategoryService
	photos     *PhotoService
	media      *MediaStorage
	notifier   *recordingNotifier
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewCategoryRepository(gdb),
		repository.NewPhotoRepository(gdb),
		repository.NewSettingRepository(gdb),
	)

	settings := NewSettingsService(repos.Setting)
	if err := settings.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	media := NewMediaStorage(t.TempDir(), "/media/")
	notifier := &recordingNotifier{}

	return &testEnv{
		db:         gdb,
		repos:      repos,
		settings:   settings,
		auth:       NewAuthService(repos.User, settings),
		users:      NewUserService(repos.User, media),
		categories: NewCategoryService(repos.Category),
		photos:     NewPhotoService(repos.Photo, repos.Category, repos.User, settings, media, notifier),
		media:      media,
		notifier:   notifier,
	}
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

// newFileHeader 通过 multipart 编解码构造真实的上传文件
func newFileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("创建表单文件失败: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("解析表单失败: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
