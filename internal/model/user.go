package model

import (
	"time"
)

type User struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `json:"username" gorm:"unique;not null;size:150"`
	Email     string `json:"email" gorm:"unique;index;size:255"`
	Password  string `json:"-" gorm:"not null"`
	Admin     bool   `json:"admin" gorm:"not null;default:false"`
}
