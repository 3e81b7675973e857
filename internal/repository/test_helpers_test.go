package repository

import (
	"testing"
	"time"

	"github.com/TanakaMizukii/photoproject/internal/model"

	"gorm.io/gorm"
)

func mustCreateUser(t *testing.T, gdb *gorm.DB, username string) model.User {
	t.Helper()
	u := model.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func mustCreateCategory(t *testing.T, gdb *gorm.DB, title string) model.Category {
	t.Helper()
	c := model.Category{Title: title}
	if err := gdb.Create(&c).Error; err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}
	return c
}

func mustCreatePost(t *testing.T, gdb *gorm.DB, userID, categoryID uint, title string, at time.Time) model.PhotoPost {
	t.Helper()
	p := model.PhotoPost{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      title,
		Comment:    "c",
		Image1:     "photos/" + title + ".png",
		PostedAt:   at,
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("创建帖子失败: %v", err)
	}
	return p
}
