package repository

import "github.com/TanakaMizukii/photoproject/internal/model"

// ListPostsParams 列表过滤条件，nil 表示不过滤
type ListPostsParams struct {
	UserID     *uint
	CategoryID *uint
	Offset     int
	Limit      int
}

type PhotoStore interface {
	Create(post *model.PhotoPost) error
	FindByID(id uint) (*model.PhotoPost, error)
	// ListPosts 按投稿时间倒序返回一页帖子及过滤后的总数
	ListPosts(params ListPostsParams) ([]model.PhotoPost, int64, error)
	// Delete 删除单条帖子，记录不存在时返回 gorm.ErrRecordNotFound
	Delete(post *model.PhotoPost) error
	CountAll() (int64, error)
}
