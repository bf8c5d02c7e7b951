package model

import "time"

// User 本地身份提供方的账号（离线开发用）
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255)"`
	DisplayName  string `gorm:"type:varchar(255)"`
	PhotoURL     string `gorm:"type:varchar(512)"`
	ProviderID   string `gorm:"type:varchar(64)"` // password, google.com ...
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }
