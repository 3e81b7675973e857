package service

import (
	"sync"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/notify"
	repo "github.com/TanakaMizukii/photoproject/internal/repository"
)

type SettingsService struct {
	settingStore repo.SettingStore
	cache        sync.Map // key -> value
}

type AuthService struct {
	userStore repo.UserStore
	settings  *SettingsService
}

type UserService struct {
	userStore repo.UserStore
	media     *MediaStorage
}

type CategoryService struct {
	categoryStore repo.CategoryStore
}

type PhotoService struct {
	photoStore    repo.PhotoStore
	categoryStore repo.CategoryStore
	userStore     repo.UserStore
	settings      *SettingsService
	media         *MediaStorage
	notifier      notify.Notifier
	now           func() time.Time
}

func NewSettingsService(settingStore repo.SettingStore) *SettingsService {
	return &SettingsService{settingStore: settingStore}
}

func NewAuthService(userStore repo.UserStore, settings *SettingsService) *AuthService {
	return &AuthService{userStore: userStore, settings: settings}
}

func NewUserService(userStore repo.UserStore, media *MediaStorage) *UserService {
	return &UserService{userStore: userStore, media: media}
}

func NewCategoryService(categoryStore repo.CategoryStore) *CategoryService {
	return &CategoryService{categoryStore: categoryStore}
}

func NewPhotoService(
	photoStore repo.PhotoStore,
	categoryStore repo.CategoryStore,
	userStore repo.UserStore,
	settings *SettingsService,
	media *MediaStorage,
	notifier notify.Notifier,
) *PhotoService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &PhotoService{
		photoStore:    photoStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		settings:      settings,
		media:         media,
		notifier:      notifier,
		now:           time.Now,
	}
}

// SetClock 替换投稿时间来源，仅供测试使用
func (s *PhotoService) SetClock(now func() time.Time) {
	s.now = now
}
