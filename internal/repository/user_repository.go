package repository

import (
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
)

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Create(user *model.User) error
	FieldExists(field consts.UserField, value string) (bool, error)
	// DeleteUserWithPosts 在同一事务内删除用户及其全部帖子，返回被删除的帖子以便清理文件
	DeleteUserWithPosts(userID uint) ([]model.PhotoPost, error)
	CountAll() (int64, error)
}
