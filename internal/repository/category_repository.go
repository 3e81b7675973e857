package repository

import (
	"errors"

	"github.com/TanakaMizukii/photoproject/internal/model"
)

// ErrCategoryInUse 分类仍被帖子引用，不允许删除
var ErrCategoryInUse = errors.New("category is referenced by photo posts")

type CategoryStore interface {
	FindByID(id uint) (*model.Category, error)
	FindAll() ([]model.Category, error)
	Create(category *model.Category) error
	// DeleteUnreferenced 在事务内确认没有帖子引用后删除分类，否则返回 ErrCategoryInUse
	DeleteUnreferenced(id uint) error
}
