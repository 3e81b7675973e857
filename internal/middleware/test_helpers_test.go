package middleware

import (
	"testing"

	"github.com/TanakaMizukii/photoproject/internal/config"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/service"
	"github.com/TanakaMizukii/photoproject/internal/testutils"

	"gorm.io/gorm"
)

type testDeps struct {
	db       *gorm.DB
	settings *service.SettingsService
	users    *service.UserService
	sessions *SessionManager
	auth     *Authenticator
}

func setupTestDeps(t *testing.T) *testDeps {
	t.Helper()
	gdb := testutils.SetupDB(t)
	settings := service.NewSettingsService(repository.NewSettingRepository(gdb))
	if err := settings.InitializeSettings(); err != nil {
		t.Fatalf("初始化配置失败: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(gdb), service.NewMediaStorage(t.TempDir(), "/media/"))
	sessions := NewSessionManager(config.Get().Session)
	return &testDeps{
		db:       gdb,
		settings: settings,
		users:    users,
		sessions: sessions,
		auth:     NewAuthenticator(sessions, users),
	}
}

func (d *testDeps) createUser(t *testing.T, username string, admin bool) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "x", Admin: admin}
	if err := d.db.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func (d *testDeps) setSetting(t *testing.T, key, value string) {
	t.Helper()
	if err := d.settings.AdminUpdateSettings([]service.UpdateSettingPayload{{Key: key, Value: value}}); err != nil {
		t.Fatalf("设置配置项失败: %v", err)
	}
}
