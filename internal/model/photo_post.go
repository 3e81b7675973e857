package model

import "time"

// PhotoPost 用户投稿。创建后不再原地修改，PostedAt 只允许在创建时写入。
type PhotoPost struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	User       User      `json:"user" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Category   Category  `json:"category" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:RESTRICT;"`
	Title      string    `json:"title" gorm:"not null;size:200"`
	Comment    string    `json:"comment" gorm:"type:text;not null"`
	Image1     string    `json:"image1" gorm:"not null"`
	Image2     *string   `json:"image2"`
	PostedAt   time.Time `json:"posted_at" gorm:"<-:create;not null;index"`
}

func (p PhotoPost) String() string {
	return p.Title
}

// ImagePaths 返回帖子引用的全部已存储文件（相对 media root）
func (p PhotoPost) ImagePaths() []string {
	paths := []string{p.Image1}
	if p.Image2 != nil && *p.Image2 != "" {
		paths = append(paths, *p.Image2)
	}
	return paths
}
