package di

import (
	"github.com/TanakaMizukii/photoproject/internal/notify"
	"github.com/TanakaMizukii/photoproject/internal/router"
	"github.com/TanakaMizukii/photoproject/internal/service"
)

type Application struct {
	Router   *router.Router
	Settings *service.SettingsService
	Auth     *service.AuthService
	Media    *service.MediaStorage
	Notifier notify.Notifier
}

func NewApplication(
	r *router.Router,
	settings *service.SettingsService,
	auth *service.AuthService,
	media *service.MediaStorage,
	notifier notify.Notifier,
) *Application {
	return &Application{
		Router:   r,
		Settings: settings,
		Auth:     auth,
		Media:    media,
		Notifier: notifier,
	}
}
