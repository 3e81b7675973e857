package model

// Category 帖子分类，由管理员维护
type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null;size:20"`
}

func (c Category) String() string {
	return c.Title
}
