package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	User     UserStore
	Category CategoryStore
	Photo    PhotoStore
	Setting  SettingStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewCategoryRepository(db *gorm.DB) CategoryStore {
	return &CategoryRepository{db: db}
}

func NewPhotoRepository(db *gorm.DB) PhotoStore {
	return &PhotoRepository{db: db}
}

func NewSettingRepository(db *gorm.DB) SettingStore {
	return &SettingRepository{db: db}
}

func NewRepositories(user UserStore, category CategoryStore, photo PhotoStore, setting SettingStore) *Repositories {
	return &Repositories{
		User:     user,
		Category: category,
		Photo:    photo,
		Setting:  setting,
	}
}
