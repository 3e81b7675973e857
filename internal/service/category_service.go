package service

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/TanakaMizukii/photoproject/internal/common"
	"github.com/TanakaMizukii/photoproject/internal/consts"
	"github.com/TanakaMizukii/photoproject/internal/model"
	"github.com/TanakaMizukii/photoproject/internal/repository"

	"gorm.io/gorm"
)

func (s *CategoryService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryStore.FindAll()
	if err != nil {
		log.Printf("ListCategories error: %v", err)
		return nil, common.NewInternalError("获取分类失败")
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryStore.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("分类不存在")
		}
		return nil, common.NewInternalError("获取分类失败")
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(title string) (*model.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.NewFieldErrors(map[string]string{"title": "分类名称不能为空"})
	}
	if utf8.RuneCountInString(title) > consts.CategoryTitleMaxRunes {
		return nil, common.NewFieldErrors(map[string]string{"title": "分类名称不能超过 20 个字符"})
	}

	category := &model.Category{Title: title}
	if err := s.categoryStore.Create(category); err != nil {
		log.Printf("CreateCategory error: %v", err)
		return nil, common.NewInternalError("创建分类失败")
	}
	return category, nil
}

// DeleteCategory 删除分类；仍被帖子引用时拒绝
func (s *CategoryService) DeleteCategory(id uint) error {
	err := s.categoryStore.DeleteUnreferenced(id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewNotFoundError("分类不存在")
	case errors.Is(err, repository.ErrCategoryInUse):
		return common.NewConflictError("该分类下仍有帖子，无法删除")
	default:
		log.Printf("DeleteCategory error: %v", err)
		return common.NewInternalError("删除分类失败")
	}
}
