//go:build wireinject
// +build wireinject

package di

import (
	"github.com/TanakaMizukii/photoproject/internal/handler"
	adminhandler "github.com/TanakaMizukii/photoproject/internal/handler/admin"
	"github.com/TanakaMizukii/photoproject/internal/middleware"
	"github.com/TanakaMizukii/photoproject/internal/notify"
	"github.com/TanakaMizukii/photoproject/internal/repository"
	"github.com/TanakaMizukii/photoproject/internal/router"
	"github.com/TanakaMizukii/photoproject/internal/service"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB) (*Application, error) {
	wire.Build(
		repository.NewUserRepository,
		repository.NewCategoryRepository,
		repository.NewPhotoRepository,
		repository.NewSettingRepository,
		notify.FromConfig,
		service.ProvideMediaStorage,
		service.NewSettingsService,
		service.NewAuthService,
		service.NewUserService,
		service.NewCategoryService,
		service.NewPhotoService,
		middleware.ProvideSessionManager,
		middleware.NewAuthenticator,
		handler.NewPhotoHandler,
		handler.NewAccountHandler,
		handler.NewSystemHandler,
		adminhandler.NewHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
