package model

import "time"

// PostDocument 文档库里的 posts 集合（按 user_id 查询，仅个人主页使用）
type PostDocument struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(128);index:idx_post_user"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PostDocument) TableName() string { return "posts" }
