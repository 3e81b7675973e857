package service

import (
	"errors"
	"log"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/model"

	"gorm.io/gorm"
)

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.userStore.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		log.Printf("GetUser error: %v", err)
		return nil, common.NewInternalError("获取用户信息失败")
	}
	return user, nil
}

// DeleteUser 删除用户及其全部帖子，提交后再清理图片文件
func (s *UserService) DeleteUser(id uint) error {
	posts, err := s.userStore.DeleteUserWithPosts(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("用户不存在")
		}
		log.Printf("DeleteUser error: %v", err)
		return common.NewInternalError("删除用户失败")
	}

	for _, post := range posts {
		s.media.RemoveAll(post.ImagePaths()...)
	}
	return nil
}
