package repository

import (
	"github.com/TanakaMizukii/photoproject/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhotoRepository struct {
	db *gorm.DB
}

func (r *PhotoRepository) Create(post *model.PhotoPost) error {
	// 关联对象只作引用，不随帖子写入
	return r.db.Omit(clause.Associations).Create(post).Error
}

func (r *PhotoRepository) FindByID(id uint) (*model.PhotoPost, error) {
	var post model.PhotoPost
	if err := r.db.Preload("User").Preload("Category").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PhotoRepository) ListPosts(params ListPostsParams) ([]model.PhotoPost, int64, error) {
	var posts []model.PhotoPost
	var total int64

	query := r.db.Model(&model.PhotoPost{})
	if params.UserID != nil {
		query = query.Where("photo_posts.user_id = ?", *params.UserID)
	}
	if params.CategoryID != nil {
		query = query.Where("photo_posts.category_id = ?", *params.CategoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// id 作为次排序键，同一时刻的帖子顺序也保持稳定
	err := query.Preload("User").Preload("Category").
		Order("photo_posts.posted_at desc").Order("photo_posts.id desc").
		Offset(params.Offset).Limit(params.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *PhotoRepository) Delete(post *model.PhotoPost) error {
	tx := r.db.Delete(&model.PhotoPost{}, post.ID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PhotoRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&model.PhotoPost{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
