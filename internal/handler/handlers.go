package handler

import (
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"gorm.io/gorm"
)

type PhotoHandler struct {
	photos     *service.PhotoService
	categories *service.CategoryService
	users      *service.UserService
	settings   *service.SettingsService
	media      *service.MediaStorage
}

type AccountHandler struct {
	auth     *service.AuthService
	sessions *middleware.SessionManager
	settings *service.SettingsService
}

type SystemHandler struct {
	db *gorm.DB
}

func NewPhotoHandler(
	photos *service.PhotoService,
	categories *service.CategoryService,
	users *service.UserService,
	settings *service.SettingsService,
	media *service.MediaStorage,
) *PhotoHandler {
	return &PhotoHandler{photos: photos, categories: categories, users: users, settings: settings, media: media}
}

func NewAccountHandler(auth *service.AuthService, sessions *middleware.SessionManager, settings *service.SettingsService) *AccountHandler {
	return &AccountHandler{auth: auth, sessions: sessions, settings: settings}
}

func NewSystemHandler(db *gorm.DB) *SystemHandler {
	return &SystemHandler{db: db}
}
